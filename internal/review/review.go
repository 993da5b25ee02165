// Package review builds the message sequence behind the review_code prompt:
// a fixed security-audit instruction, the material under review, and an
// assistant primer that fixes the opening of the response.
package review

// Message is one chat message in a prompt sequence.
type Message struct {
	Role    string
	Content string
}

// Roles carried by prompt messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const instruction = `You are a security expert reviewing C source code and its disassembly.

Plan the review privately first; do not include the plan in your reply.

Audit the material for memory-safety defects, integer errors (overflow, underflow, truncation, signedness), undefined behavior, injection risks, and concurrency hazards.

Number each finding and give it exactly five fields: title, location, severity with justification, root cause, and recommended fix.

If no vulnerabilities are present, state that explicitly. End with overall hardening advice for the code.`

const primer = "I've reviewed the code and found the following vulnerabilities:"

// Build assembles the review conversation. The instruction always opens and
// the primer always closes; code and disassembly each contribute a message
// only when non-empty, so absent material never produces a blank turn.
func Build(code, disassembly string) []Message {
	msgs := make([]Message, 0, 4)
	msgs = append(msgs, Message{Role: RoleUser, Content: instruction})
	if code != "" {
		msgs = append(msgs, Message{Role: RoleUser, Content: code})
	}
	if disassembly != "" {
		msgs = append(msgs, Message{Role: RoleUser, Content: disassembly})
	}
	msgs = append(msgs, Message{Role: RoleAssistant, Content: primer})
	return msgs
}
