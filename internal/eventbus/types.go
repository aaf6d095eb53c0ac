package eventbus

import (
	"time"
)

// Topic identifies a logical channel on the bus.
type Topic string

// Topics wired between the transport, session manager and agent runtime.
const (
	TopicSessionsLifecycle Topic = "sessions.lifecycle"
	TopicUtterance         Topic = "conversation.utterance"
	TopicConversationReply Topic = "conversation.reply"
	TopicConversationSpeak Topic = "conversation.speak"
	TopicToolInvoked       Topic = "tools.invoked"
	TopicPersonaTransfer   Topic = "persona.transfer"
	TopicPipelineError     Topic = "pipeline.error"
)

// Source describes which component produced an event.
type Source string

const (
	SourceSessionManager Source = "session_manager"
	SourceRunner         Source = "runner"
	SourceTransport      Source = "transport"
	SourceAdapter        Source = "adapter"
	SourceUnknown        Source = "unknown"
)

// Envelope wraps every message published on the bus.
type Envelope struct {
	Topic     Topic
	Timestamp time.Time
	Source    Source
	Payload   any
}

// SessionState summarises session lifecycle transitions.
type SessionState string

const (
	SessionStateCreated SessionState = "created"
	SessionStateRunning SessionState = "running"
	SessionStateStopped SessionState = "stopped"
)

// SessionLifecycleEvent notifies consumers about session state transitions.
type SessionLifecycleEvent struct {
	SessionID string
	Agent     string
	State     SessionState
	Reason    string
}

// UtteranceEvent carries one transcribed user turn.
type UtteranceEvent struct {
	SessionID string
	Text      string
}

// ReplyEvent carries the assistant's text reply for a turn.
type ReplyEvent struct {
	SessionID string
	Persona   string
	Text      string
}

// SpeakEvent asks the synthesis collaborator to voice a reply.
type SpeakEvent struct {
	SessionID string
	Text      string
	Voice     string
}

// ToolInvokedEvent records one tool execution during a turn.
type ToolInvokedEvent struct {
	SessionID string
	Tool      string
	CallID    string
	IsError   bool
}

// PersonaTransferEvent records a hand-off between personas.
type PersonaTransferEvent struct {
	SessionID string
	From      string
	To        string
	Carried   int
}

// PipelineErrorEvent reports a failure in turn processing.
type PipelineErrorEvent struct {
	SessionID string
	Stage     string
	Message   string
}
