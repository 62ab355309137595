package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply    *schema.Message
	err      error
	received []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.received = input
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

var jpeg = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func TestDescribeImage_SendsPromptAndImage(t *testing.T) {
	fake := &fakeChatModel{reply: schema.AssistantMessage("  \"Prostokvashino milk 1 l\"\n", nil)}
	c := NewWithModel(fake, ProviderOpenAI, "test-model")

	desc, err := c.DescribeImage(context.Background(), jpeg)
	require.NoError(t, err)
	assert.Equal(t, "Prostokvashino milk 1 l", desc)

	require.Len(t, fake.received, 1)
	msg := fake.received[0]
	assert.Equal(t, schema.User, msg.Role)
	require.Len(t, msg.MultiContent, 2)
	assert.Equal(t, schema.ChatMessagePartTypeText, msg.MultiContent[0].Type)
	assert.NotEmpty(t, msg.MultiContent[0].Text)
	require.NotNil(t, msg.MultiContent[1].ImageURL)
	assert.True(t, strings.HasPrefix(msg.MultiContent[1].ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestDescribeImage_EmptyReply(t *testing.T) {
	c := NewWithModel(&fakeChatModel{reply: schema.AssistantMessage("   ", nil)}, ProviderGemini, "m")
	_, err := c.DescribeImage(context.Background(), jpeg)
	assert.ErrorIs(t, err, ErrNoDescription)
}

func TestDescribeImage_ModelError(t *testing.T) {
	c := NewWithModel(&fakeChatModel{err: errors.New("quota exceeded")}, ProviderAnthropic, "m")
	_, err := c.DescribeImage(context.Background(), jpeg)
	assert.EqualError(t, err, "anthropic describe image: quota exceeded")
}

func TestDescribeImage_EmptyImage(t *testing.T) {
	c := NewWithModel(&fakeChatModel{}, ProviderOpenAI, "m")
	_, err := c.DescribeImage(context.Background(), nil)
	assert.EqualError(t, err, "image is empty")
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(context.Background(), "openai", "", "")
	assert.EqualError(t, err, "API key for openai is not configured")

	_, err = NewClient(context.Background(), "mistral", "key", "")
	assert.EqualError(t, err, "unsupported provider: mistral")
}

func TestEmbeddedPromptLoaded(t *testing.T) {
	assert.NotEmpty(t, loadPrompt("describe_image.txt"))
	assert.Empty(t, loadPrompt("missing.txt"))
}
