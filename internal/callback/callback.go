// Package callback encodes and decodes the structured tokens carried by
// inline-button presses. A token is "category:action" with an optional
// ":data" scalar; decoding is lossless and never fails on unknown
// categories or actions, routers just ignore what they don't handle.
package callback

import (
	"fmt"
	"strconv"
	"strings"
)

// Category identifies the feature area a button belongs to.
type Category string

const (
	CategoryMenu        Category = "menu"
	CategoryForm        Category = "form"
	CategoryDepartments Category = "departments"
	CategoryEducations  Category = "educations"
	CategoryEmployers   Category = "employers"
	CategoryTrips       Category = "trips"
	CategoryLanguages   Category = "languages"
	CategorySkills      Category = "skills"
)

// Action identifies the operation a button triggers.
type Action string

const (
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
	ActionSelect   Action = "select"
	ActionOpen     Action = "open"
	ActionAdd      Action = "add"
	ActionDelete   Action = "delete"
	ActionBack     Action = "back"
	ActionHome     Action = "home"
	ActionYes      Action = "yes"
	ActionNo       Action = "no"
	ActionApply    Action = "apply"
	ActionManage   Action = "manage"
)

// Token is the decoded form of a button payload.
type Token struct {
	Category Category
	Action   Action
	Data     int64
	HasData  bool
}

// New builds a token without a data scalar.
func New(c Category, a Action) Token {
	return Token{Category: c, Action: a}
}

// WithData builds a token carrying a scalar, typically a catalog id.
func WithData(c Category, a Action, data int64) Token {
	return Token{Category: c, Action: a, Data: data, HasData: true}
}

// Encode renders the token as a compact string payload.
func (t Token) Encode() string {
	if t.HasData {
		return fmt.Sprintf("%s:%s:%d", t.Category, t.Action, t.Data)
	}
	return fmt.Sprintf("%s:%s", t.Category, t.Action)
}

// Decode parses a button payload. Payloads that are not three-part tokens
// are rejected so routers can treat them as no-ops.
func Decode(raw string) (Token, bool) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Token{}, false
	}
	if parts[0] == "" || parts[1] == "" {
		return Token{}, false
	}
	tok := Token{Category: Category(parts[0]), Action: Action(parts[1])}
	if len(parts) == 3 {
		data, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Token{}, false
		}
		tok.Data = data
		tok.HasData = true
	}
	return tok, true
}
