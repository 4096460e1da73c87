package models

// Turn is one message of the caller-held conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PersonalizationBlock is the rendered patient summary injected into the
// consultation prompt. The zero value is the empty block used for
// anonymous consultations.
type PersonalizationBlock struct {
	text string
}

func NewPersonalizationBlock(text string) PersonalizationBlock {
	return PersonalizationBlock{text: text}
}

func (b PersonalizationBlock) IsEmpty() bool { return b.text == "" }

func (b PersonalizationBlock) String() string { return b.text }
