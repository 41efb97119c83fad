package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestConfirmExactAccepts(t *testing.T) {
	var out bytes.Buffer
	err := confirmExact(context.Background(), strings.NewReader("jenkins\n"), &out, "Type the stack name:", "jenkins")
	if err != nil {
		t.Fatalf("confirmExact: %v", err)
	}
}

func TestConfirmExactRejectsMismatch(t *testing.T) {
	var out bytes.Buffer
	err := confirmExact(context.Background(), strings.NewReader("jenkinss\n"), &out, "Type the stack name:", "jenkins")
	if err == nil {
		t.Fatalf("expected abort on mismatch")
	}
}

func TestConfirmExactRejectsEmptyToken(t *testing.T) {
	var out bytes.Buffer
	if err := confirmExact(context.Background(), strings.NewReader("\n"), &out, "Confirm:", ""); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestConfirmExactHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	// A reader that never produces a line keeps the prompt pending.
	blocked, release := newBlockedReader()
	defer release()
	err := confirmExact(ctx, blocked, &out, "Confirm:", "jenkins")
	if err == nil {
		t.Fatalf("expected context error")
	}
}

type blockedReader struct {
	ch chan struct{}
}

func newBlockedReader() (*blockedReader, func()) {
	b := &blockedReader{ch: make(chan struct{})}
	return b, func() { close(b.ch) }
}

func (b *blockedReader) Read(_ []byte) (int, error) {
	<-b.ch
	return 0, io.EOF
}
