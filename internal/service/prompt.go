package service

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// literalMessage is a MessagesTemplate that skips variable substitution.
type literalMessage struct {
	msg *schema.Message
}

func (l *literalMessage) Format(_ context.Context, _ map[string]any, _ schema.FormatType) ([]*schema.Message, error) {
	return []*schema.Message{l.msg}, nil
}
