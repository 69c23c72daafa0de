package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"hr-intake-bot/internal/common/config"
	"hr-intake-bot/internal/transport"
)

// buildTransport returns the outbound transport and the update source. The
// real platform client is deployed separately; this binary ships with a
// console loopback so the whole flow can be exercised locally:
//
//	hello                text update
//	/cb form:home        callback press
//	/photo ref-1         photo upload
//	/contact +99890...   contact share
func buildTransport(_ config.BotConfig) (transport.Transport, transport.Receiver, error) {
	c := &console{out: os.Stdout}
	return c, c, nil
}

type console struct {
	mu     sync.Mutex
	out    *os.File
	nextID int64
}

const (
	consoleActorID = int64(1)
	consoleChatID  = int64(1)
)

func (c *console) SendMessage(_ context.Context, chatID int64, text string, kb transport.Keyboard) (transport.MessageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	fmt.Fprintf(c.out, "-> [%d:%d] %s\n", chatID, id, text)
	printKeyboard(c.out, kb)
	return transport.MessageRef{ChatID: chatID, MessageID: id}, nil
}

func (c *console) SendPhoto(_ context.Context, chatID int64, imageRef, caption string, kb transport.Keyboard) (transport.MessageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	fmt.Fprintf(c.out, "-> [%d:%d] (photo %s) %s\n", chatID, id, imageRef, caption)
	printKeyboard(c.out, kb)
	return transport.MessageRef{ChatID: chatID, MessageID: id}, nil
}

func (c *console) EditMessage(_ context.Context, ref transport.MessageRef, text string, kb transport.Keyboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "~> [%d:%d] %s\n", ref.ChatID, ref.MessageID, text)
	printKeyboard(c.out, kb)
	return nil
}

func (c *console) DeleteMessage(_ context.Context, ref transport.MessageRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "x> [%d:%d]\n", ref.ChatID, ref.MessageID)
	return nil
}

func (c *console) AnswerCallback(context.Context, string) error { return nil }

func printKeyboard(out *os.File, kb transport.Keyboard) {
	for _, row := range kb {
		for _, b := range row {
			fmt.Fprintf(out, "   [%s -> %s]", b.Text, b.Data)
		}
		fmt.Fprintln(out)
	}
}

func (c *console) Updates(ctx context.Context) (<-chan transport.Update, error) {
	ch := make(chan transport.Update)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(os.Stdin)
		var msgID int64 = 100000
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			msgID++
			up := transport.Update{
				Kind:        transport.UpdateText,
				ActorID:     consoleActorID,
				ChatID:      consoleChatID,
				Username:    "console",
				DisplayName: "Console User",
				MessageID:   msgID,
				Text:        line,
			}
			switch {
			case strings.HasPrefix(line, "/cb "):
				up.Kind = transport.UpdateCallback
				up.CallbackID = fmt.Sprintf("cb-%d", msgID)
				up.CallbackData = strings.TrimPrefix(line, "/cb ")
				up.MessageID = 0
				up.Text = ""
			case strings.HasPrefix(line, "/photo "):
				up.Kind = transport.UpdatePhoto
				up.PhotoRef = strings.TrimPrefix(line, "/photo ")
				up.Text = ""
			case strings.HasPrefix(line, "/contact "):
				up.Kind = transport.UpdateContact
				up.Contact = &transport.Contact{Phone: strings.TrimPrefix(line, "/contact ")}
				up.Text = ""
			}
			select {
			case ch <- up:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
