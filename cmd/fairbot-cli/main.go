// fairbot-cli is a terminal chat client for a running fairbot server. It
// keeps the session id and transcript in a local cache file so a
// conversation survives across invocations.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairental/fairbot/internal/event"
	"github.com/fairental/fairbot/internal/sessioncache"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8780", "fairbot server base URL")
	statePath := flag.String("state", sessioncache.DefaultPath, "session cache file")
	flag.Parse()

	_ = godotenv.Load()

	cache := sessioncache.New(*statePath)
	state, err := cache.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load session cache: %v\n", err)
		os.Exit(1)
	}

	if state.SessionID != "" {
		fmt.Printf("resuming session %s (%d messages) — /history to review, /clear to start over\n",
			state.SessionID, len(state.Messages))
	} else {
		fmt.Println("new conversation — type a question, /quit to exit")
	}

	client := &http.Client{Timeout: 150 * time.Second}
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case line == "/clear":
			if err := cache.Clear(); err != nil {
				fmt.Fprintf(os.Stderr, "clear failed: %v\n", err)
				continue
			}
			state = sessioncache.State{}
			fmt.Println("session cleared")
			continue
		case line == "/history":
			for _, m := range state.Messages {
				fmt.Printf("[%s] %s\n", m.Role, m.Content)
			}
			continue
		}

		answer, sessionID, interactionID, err := sendChat(client, *serverURL, line, state.SessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
			fmt.Println("(your question was not recorded — try again)")
			continue
		}

		now := event.Timestamp(time.Now())
		state.SessionID = sessionID
		state.Messages = append(state.Messages,
			sessioncache.Message{Role: "user", Content: line, InteractionID: interactionID, Timestamp: now},
			sessioncache.Message{Role: "assistant", Content: answer, InteractionID: interactionID, Timestamp: now},
		)
		if err := cache.Save(state); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save session cache: %v\n", err)
		}

		fmt.Println(answer)
	}
}

func sendChat(client *http.Client, baseURL, question, sessionID string) (answer, session, interaction string, err error) {
	payload := map[string]string{"userQuestion": question}
	if sessionID != "" {
		payload["sessionId"] = sessionID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", "", err
	}

	resp, err := client.Post(baseURL+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", "", "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", "", err
	}
	if resp.StatusCode != http.StatusOK {
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &msg) == nil && msg.Message != "" {
			return "", "", "", fmt.Errorf("server error %d: %s", resp.StatusCode, msg.Message)
		}
		return "", "", "", fmt.Errorf("server error %d", resp.StatusCode)
	}

	var out struct {
		Response      string `json:"response"`
		SessionID     string `json:"sessionId"`
		InteractionID string `json:"interactionId"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", "", "", fmt.Errorf("bad server response: %w", err)
	}
	return out.Response, out.SessionID, out.InteractionID, nil
}
