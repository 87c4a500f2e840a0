package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"loan-assist-be/internal/dto"

	"github.com/fatih/color"
)

// Walks a scripted applicant through a running intake server so the
// whole stage flow can be eyeballed without a frontend.

var scripts = map[string][]string{
	"approved": {
		"hi",
		"my name is Rohan Sharma",
		"ABCDE1234F",
		"85,000",
		"none",
		"300000",
		"24",
		"thanks!",
	},
	"rejected": {
		"Priya Verma",
		"XYZAB5678K",
		"20000",
	},
	"high-emi": {
		"Amit Patel",
		"PQRST9012L",
		"50,000",
		"30000",
	},
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000", "intake server base URL")
	scenario := flag.String("scenario", "approved", "script to run: approved, rejected, high-emi")
	flag.Parse()

	script, ok := scripts[*scenario]
	if !ok {
		log.Fatalf("unknown scenario %q", *scenario)
	}

	userColor := color.New(color.FgCyan, color.Bold)
	botColor := color.New(color.FgGreen)
	metaColor := color.New(color.FgYellow)

	client := &http.Client{Timeout: 30 * time.Second}
	sessionId := ""

	for _, msg := range script {
		userColor.Printf("you > ")
		fmt.Println(msg)

		resp, err := sendChat(client, *baseURL, sessionId, msg)
		if err != nil {
			log.Fatalf("chat request failed: %v", err)
		}
		sessionId = resp.SessionId

		botColor.Printf("bot > ")
		fmt.Println(resp.Reply)
		metaColor.Printf("      [session=%s stage=%s]\n", resp.SessionId, resp.Stage)
		if resp.UiAction != "" {
			metaColor.Printf("      [ui_action=%s letter=%s]\n", resp.UiAction, resp.Data.LetterURL)
		}
		fmt.Println()
	}
}

func sendChat(client *http.Client, baseURL, sessionId, message string) (*dto.ChatResponse, error) {
	body, err := json.Marshal(dto.ChatRequest{SessionId: sessionId, Message: message})
	if err != nil {
		return nil, err
	}

	httpResp, err := client.Post(baseURL+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", httpResp.Status)
	}

	var resp dto.ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
