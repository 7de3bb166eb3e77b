package domain

import "time"

// Defaults are the remembered values used to pre-fill the next command in a
// session. They carry no correctness obligation.
type Defaults struct {
	Expression string    `json:"expression"`
	UpdatedAt  time.Time `json:"updated_at"`
}
