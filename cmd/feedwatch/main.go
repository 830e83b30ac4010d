// Package main tails the live post feed, or holds many feed connections open
// to load-test the server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Stats tracks connection and message counts across clients.
type Stats struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	MessagesReceived     int64
	Drops                int64
}

var stats Stats

type feedMessage struct {
	Type    string `json:"type"`
	Author  string `json:"author"`
	Preview string `json:"preview"`
	Group   string `json:"group_slug"`
	Page    struct {
		Items []json.RawMessage `json:"items"`
	} `json:"page"`
}

func main() {
	host := flag.String("host", "localhost:8000", "API server host")
	group := flag.String("group", "", "Only follow posts in this group slug")
	author := flag.String("author", "", "Only follow posts by this username")
	username := flag.String("username", "", "Log in as this user (optional)")
	password := flag.String("password", "", "Password for -username")
	clients := flag.Int("clients", 1, "Number of concurrent feed connections")
	duration := flag.Duration("duration", 0, "Stop after this long; 0 runs until interrupted")
	flag.Parse()

	header := http.Header{}
	if *username != "" {
		token, err := login(*host, *username, *password)
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		header.Set("Authorization", "Bearer "+token)
	}

	query := url.Values{}
	if *group != "" {
		query.Set("group", *group)
	}
	if *author != "" {
		query.Set("author", *author)
	}
	feedURL := url.URL{Scheme: "ws", Host: *host, Path: "/api/ws/feed", RawQuery: query.Encode()}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	verbose := *clients == 1

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go runClient(feedURL.String(), header, i, verbose, stop, &wg)
		if *clients > 1 {
			time.Sleep(20 * time.Millisecond)
		}
	}

	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(*duration)
	}
	select {
	case <-timeout:
		log.Println("Duration reached")
	case <-interrupt:
		log.Println("Interrupted")
	}

	close(stop)
	wg.Wait()
	printStats()
}

func login(host, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(fmt.Sprintf("http://%s/api/auth/login", host), "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func runClient(feedURL string, header http.Header, id int, verbose bool, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	atomic.AddInt64(&stats.ConnectionsAttempted, 1)
	conn, resp, err := websocket.DefaultDialer.Dial(feedURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		atomic.AddInt64(&stats.ConnectionsFailed, 1)
		log.Printf("[client %d] dial failed: %v", id, err)
		return
	}
	atomic.AddInt64(&stats.ConnectionsSuccess, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[client %d] read: %v", id, err)
				}
				return
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)

			var msg feedMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			if msg.Type == "events_dropped" {
				atomic.AddInt64(&stats.Drops, 1)
			}
			if verbose {
				printMessage(msg)
			}
		}
	}()

	select {
	case <-stop:
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	case <-done:
	}
	_ = conn.Close()
}

func printMessage(msg feedMessage) {
	switch msg.Type {
	case "backlog":
		log.Printf("connected, %d recent posts", len(msg.Page.Items))
	case "post_created":
		where := ""
		if msg.Group != "" {
			where = " in " + msg.Group
		}
		log.Printf("%s posted%s: %s", msg.Author, where, msg.Preview)
	default:
		log.Printf("%s message", msg.Type)
	}
}

func printStats() {
	fmt.Println("Feed watch results")
	fmt.Printf("Connections attempted: %d\n", stats.ConnectionsAttempted)
	fmt.Printf("Connections succeeded: %d\n", stats.ConnectionsSuccess)
	fmt.Printf("Connections failed:    %d\n", stats.ConnectionsFailed)
	fmt.Printf("Messages received:     %d\n", stats.MessagesReceived)
	fmt.Printf("Drop notices:          %d\n", stats.Drops)
}
