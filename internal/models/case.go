package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AIProvider identifies the chatbot a case was reported against
type AIProvider string

const (
	ProviderChatGPT  AIProvider = "ChatGPT"
	ProviderClaude   AIProvider = "Claude"
	ProviderErnieBot AIProvider = "ErnieBot"
	ProviderQwen     AIProvider = "Qwen"
	ProviderCustom   AIProvider = "Custom"
	ProviderUnknown  AIProvider = "Unknown"
)

// AIProviders lists every provider in display order
var AIProviders = []AIProvider{
	ProviderChatGPT, ProviderClaude, ProviderErnieBot, ProviderQwen, ProviderCustom, ProviderUnknown,
}

func (p AIProvider) Valid() bool {
	for _, v := range AIProviders {
		if p == v {
			return true
		}
	}
	return false
}

// ErrorType classifies what the AI got wrong
type ErrorType string

const (
	ErrorFactual     ErrorType = "factual"
	ErrorLogic       ErrorType = "logic"
	ErrorIrrelevant  ErrorType = "irrelevant"
	ErrorRepetitive  ErrorType = "repetitive"
	ErrorPerfunctory ErrorType = "perfunctory"
)

var ErrorTypes = []ErrorType{
	ErrorFactual, ErrorLogic, ErrorIrrelevant, ErrorRepetitive, ErrorPerfunctory,
}

func (e ErrorType) Valid() bool {
	for _, v := range ErrorTypes {
		if e == v {
			return true
		}
	}
	return false
}

type DialogRole string

const (
	RoleUser      DialogRole = "user"
	RoleAssistant DialogRole = "assistant"
)

func (r DialogRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// DialogMessage is one turn of the reported conversation. Timestamp is in
// Unix milliseconds.
type DialogMessage struct {
	Role      DialogRole `json:"role"`
	Content   string     `json:"content"`
	Timestamp int64      `json:"timestamp"`
}

type Case struct {
	ID                string                             `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID            *string                            `gorm:"type:varchar(36);index" json:"userId"`
	User              *User                              `json:"user,omitempty"`
	AIName            string                             `gorm:"column:ai_name;size:100;not null" json:"aiName"`
	AIProvider        AIProvider                         `gorm:"column:ai_provider;size:20;not null;default:Unknown" json:"aiProvider"`
	OriginalDialog    datatypes.JSONSlice[DialogMessage] `gorm:"column:original_dialog;not null" json:"originalDialog"`
	ErrorType         ErrorType                          `gorm:"size:20;not null;default:factual" json:"errorType"`
	HighlightedText   string                             `gorm:"type:text;not null" json:"highlightedText"`
	CorrectionSuggest string                             `gorm:"type:text" json:"correctionSuggest"`

	Views        int64 `gorm:"not null;default:0" json:"views"`
	WhipCount    int64 `gorm:"not null;default:0" json:"whipCount"`
	VoteAngry    int64 `gorm:"not null;default:0" json:"voteAngry"`
	VoteLearn    int64 `gorm:"not null;default:0" json:"voteLearn"`
	CommentCount int64 `gorm:"not null;default:0" json:"commentCount"`
	LikeCount    int64 `gorm:"not null;default:0" json:"likeCount"`
	ShareCount   int64 `gorm:"not null;default:0" json:"shareCount"`

	Comments  []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Likes     []Like    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Case) BeforeCreate(_ *gorm.DB) error {
	return assignID(&c.ID)
}

// Counter names a single engagement column that can be incremented
type Counter string

const (
	CounterViews     Counter = "views"
	CounterWhip      Counter = "whip_count"
	CounterVoteAngry Counter = "vote_angry"
	CounterVoteLearn Counter = "vote_learn"
	CounterShare     Counter = "share_count"
)

// Column returns the database column, or "" for anything outside the whitelist
func (c Counter) Column() string {
	switch c {
	case CounterViews, CounterWhip, CounterVoteAngry, CounterVoteLearn, CounterShare:
		return string(c)
	}
	return ""
}

// CreateCaseRequest is the submission payload. errorDescription and
// correctionSuggestion are the field names used by the web client.
type CreateCaseRequest struct {
	AIName               string          `json:"aiName"`
	AIProvider           AIProvider      `json:"aiProvider"`
	DialogMessages       []DialogMessage `json:"dialogMessages"`
	ErrorType            ErrorType       `json:"errorType"`
	ErrorDescription     string          `json:"errorDescription"`
	CorrectionSuggestion string          `json:"correctionSuggestion"`
	UserID               string          `json:"userId"`
	SessionKey           string          `json:"sessionKey"`
}

// Statistics is the aggregate view over all cases
type Statistics struct {
	TotalCases       int64                `json:"totalCases"`
	TotalWhipCount   int64                `json:"totalWhipCount"`
	CasesByProvider  map[AIProvider]int64 `json:"casesByProvider"`
	CasesByErrorType map[ErrorType]int64  `json:"casesByErrorType"`
}

// NewStatistics returns statistics with every enum key present at zero
func NewStatistics() Statistics {
	s := Statistics{
		CasesByProvider:  make(map[AIProvider]int64, len(AIProviders)),
		CasesByErrorType: make(map[ErrorType]int64, len(ErrorTypes)),
	}
	for _, p := range AIProviders {
		s.CasesByProvider[p] = 0
	}
	for _, e := range ErrorTypes {
		s.CasesByErrorType[e] = 0
	}
	return s
}
