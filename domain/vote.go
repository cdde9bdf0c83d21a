package domain

import "time"

type Candidate struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Team struct {
	Id         string      `json:"id"`
	Name       string      `json:"name"`
	VoteCount  int         `json:"voteCount"`
	Candidates []Candidate `json:"candidates"`
}

// VoteSession is a head-to-head vote between exactly two teams. At most one
// session may be active at a time.
type VoteSession struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Teams       []Team     `json:"teams"`
	IsActive    bool       `json:"isActive"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Vote struct {
	Id        string    `json:"id"`
	SessionId string    `json:"sessionId"`
	TeamId    string    `json:"teamId"`
	VoterIp   string    `json:"voterIp"`
	CreatedAt time.Time `json:"createdAt"`
}
