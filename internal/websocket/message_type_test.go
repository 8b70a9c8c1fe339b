package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChatMessage(t *testing.T) {
	raw := json.RawMessage(`{"sender_id":"alice","recipient_id":"bob","content":"hi","attachments":[1,2]}`)

	msg, err := ParseChatMessage(raw)
	require.NoError(t, err)

	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "bob", msg.RecipientID)
	assert.Equal(t, raw, msg.Raw)
}

func TestParseChatMessageMissingIdentifiers(t *testing.T) {
	for _, raw := range []string{`{}`, `{"content":"hi"}`, `{"sender_id":"","recipient_id":null}`, `{"sender_id":42}`, `null`, ``} {
		_, err := ParseChatMessage(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrMissingIdentifiers, raw)
	}
}

func TestParseChatMessageRejectsNonObject(t *testing.T) {
	_, err := ParseChatMessage(json.RawMessage(`["alice","bob"]`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingIdentifiers)
}

func TestParseJoin(t *testing.T) {
	userID, err := ParseJoin(json.RawMessage(`{"userId":" alice "}`))
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)

	for _, raw := range []string{``, `{}`, `{"userId":""}`} {
		_, err := ParseJoin(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrEmptyUserID, raw)
	}

	_, err = ParseJoin(json.RawMessage(`"alice"`))
	assert.Error(t, err)
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"event":"send_message","data":{"sender_id":"a"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventSendMessage, env.Event)
	assert.True(t, env.Event.IsValid())
	assert.JSONEq(t, `{"sender_id":"a"}`, string(env.Data))

	_, err = DecodeEnvelope([]byte(`not json`))
	assert.Error(t, err)
}

func TestEventTypeIsValid(t *testing.T) {
	assert.True(t, EventJoin.IsValid())
	assert.True(t, EventSendMessage.IsValid())
	assert.False(t, EventNewMessage.IsValid())
	assert.False(t, EventType("typing").IsValid())
}

func TestEncodeEvent(t *testing.T) {
	frame, err := EncodeEvent(EventNewMessage, json.RawMessage(`{"sender_id":"a","body":"x"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"new_message","data":{"sender_id":"a","body":"x"}}`, string(frame))
}
