package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tailwind-converter/internal/config"
	"tailwind-converter/internal/model"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply string
	err   error

	calls    int
	messages []*schema.Message
	opts     []einoModel.Option
}

func (f *fakeChatModel) Generate(_ context.Context, messages []*schema.Message, opts ...einoModel.Option) (*schema.Message, error) {
	f.calls++
	f.messages = messages
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...einoModel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func newTestService(fake *fakeChatModel, apiKey string) *ConvertService {
	return NewConvertService(fake, Options{
		APIKey:       apiKey,
		SystemPrompt: config.DefaultSystemPrompt,
	})
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json {\"a\":1} ```\n\t", `{"a":1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripFences(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, StripFences(got), "stripping twice changes nothing")
		})
	}
}

func TestConvert_FencedReply(t *testing.T) {
	fake := &fakeChatModel{
		reply: "```json\n{\"output\":\"flex p-4\",\"analysis\":\"Applies flex layout and padding.\"}\n```",
	}
	svc := newTestService(fake, "key")

	out, err := svc.Convert(context.Background(), ".box { display: flex; padding: 1rem; }")
	require.NoError(t, err)
	assert.JSONEq(t, `{"output":"flex p-4","analysis":"Applies flex layout and padding."}`, string(out))
}

func TestConvert_RoundTrip(t *testing.T) {
	type result struct {
		Output   string `json:"output"`
		Analysis string `json:"analysis"`
	}
	want := result{Output: "hover:bg-blue-500 md:p-8", Analysis: "Uses hover and md prefixes."}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	for _, reply := range []string{
		string(raw),
		"```json" + string(raw) + "```",
		"\n```\n" + string(raw) + "\n```\n",
	} {
		svc := newTestService(&fakeChatModel{reply: reply}, "key")
		out, err := svc.Convert(context.Background(), "a:hover { background: blue; }")
		require.NoError(t, err)

		var got result
		require.NoError(t, json.Unmarshal(out, &got))
		assert.Equal(t, want, got)
	}
}

func TestConvert_KeepsKeyOrder(t *testing.T) {
	svc := newTestService(&fakeChatModel{reply: `{"output":"flex","analysis":"x"}`}, "key")

	out, err := svc.Convert(context.Background(), "div{display:flex}")
	require.NoError(t, err)
	assert.Equal(t, `{"output":"flex","analysis":"x"}`, string(out))
}

func TestConvert_EmptyReplyIsEmptyObject(t *testing.T) {
	svc := newTestService(&fakeChatModel{reply: ""}, "key")

	out, err := svc.Convert(context.Background(), "div{}")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestConvert_MalformedReply(t *testing.T) {
	svc := newTestService(&fakeChatModel{reply: "```json\nflex p-4\n```"}, "key")

	_, err := svc.Convert(context.Background(), "div{}")
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, KindMalformedOutput, upstream.Kind)
}

func TestConvert_ProviderError(t *testing.T) {
	fake := &fakeChatModel{err: &model.ProviderError{Provider: "gemini", StatusCode: 429, Message: "quota exceeded"}}
	svc := newTestService(fake, "key")

	_, err := svc.Convert(context.Background(), "div{}")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, KindProvider, upstream.Kind)
	assert.Equal(t, "quota exceeded", err.Error())
}

func TestConvert_TransportError(t *testing.T) {
	svc := newTestService(&fakeChatModel{err: errors.New("connection refused")}, "key")

	_, err := svc.Convert(context.Background(), "div{}")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, KindTransport, upstream.Kind)
	assert.Equal(t, "connection refused", err.Error())
}

func TestConvert_MissingKeyWinsOverMissingCSS(t *testing.T) {
	fake := &fakeChatModel{reply: `{}`}
	svc := newTestService(fake, "")

	_, err := svc.Convert(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = svc.Convert(context.Background(), "div{}")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, fake.calls)
}

func TestConvert_NoCSS(t *testing.T) {
	fake := &fakeChatModel{reply: `{}`}
	svc := newTestService(fake, "key")

	_, err := svc.Convert(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCSS)
	assert.Zero(t, fake.calls)
}

func TestConvert_PromptMessages(t *testing.T) {
	fake := &fakeChatModel{reply: `{}`}
	svc := NewConvertService(fake, Options{
		APIKey:       "key",
		SystemPrompt: `Return {"output": ..., "analysis": ...}`,
		GenerateOpts: []einoModel.Option{einoModel.WithTemperature(0.2)},
	})

	cssCode := "@media (min-width: 640px) { .a { color: red; } }"
	_, err := svc.Convert(context.Background(), cssCode)
	require.NoError(t, err)

	require.Len(t, fake.messages, 2)
	assert.Equal(t, schema.System, fake.messages[0].Role)
	assert.Equal(t, `Return {"output": ..., "analysis": ...}`, fake.messages[0].Content)
	assert.Equal(t, schema.User, fake.messages[1].Role)
	assert.Equal(t, cssCode, fake.messages[1].Content)
	assert.Len(t, fake.opts, 1)
}
