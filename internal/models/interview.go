package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	InterviewTypes   = []string{"Full Time", "Internship"}
	InterviewDomains = []string{"Tech", "Core", "Management", "Finance", "Consulting"}
)

// FilterAll in a listing filter means "no filter".
const FilterAll = "All"

func IsValidInterviewType(t string) bool   { return contains(InterviewTypes, t) }
func IsValidInterviewDomain(d string) bool { return contains(InterviewDomains, d) }

type Round struct {
	Title       string `json:"title" bson:"title" validate:"required"`
	Description string `json:"description" bson:"description" validate:"required"`
}

// InterviewDetails is the write-up itself, shared by the stored document
// and the read model.
type InterviewDetails struct {
	Company       string  `json:"company" bson:"company"`
	Role          string  `json:"role" bson:"role"`
	Type          string  `json:"type" bson:"type"`
	Branch        string  `json:"branch" bson:"branch"`
	Domain        string  `json:"domain" bson:"domain"`
	InterviewDate string  `json:"interviewDate" bson:"interviewDate"`
	Rounds        []Round `json:"rounds" bson:"rounds"`
	HRRound       string  `json:"hrRound" bson:"hrRound"`
	OfferDetails  string  `json:"offerDetails" bson:"offerDetails"`
	Tips          string  `json:"tips" bson:"tips"`
}

// Interview is an interview experience post stored in MongoDB
type Interview struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Author           primitive.ObjectID `json:"author" bson:"author"`
	InterviewDetails `bson:",inline"`
	Timestamps `bson:",inline"`
}

// InterviewView is an interview joined with its author and engagement.
type InterviewView struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id"`
	Author           AuthorSummary      `json:"author" bson:"author"`
	InterviewDetails `bson:",inline"`
	Engagement       `bson:",inline"`
	CommentCount     int64 `json:"commentCount" bson:"commentCount"`
	Timestamps `bson:",inline"`
}

// CreateInterviewRequest defines the request body for creating an interview
type CreateInterviewRequest struct {
	Company       string  `json:"company" validate:"required,max=120"`
	Role          string  `json:"role" validate:"required,max=120"`
	Type          string  `json:"type" validate:"required"`
	Domain        string  `json:"domain" validate:"required"`
	InterviewDate string  `json:"interviewDate"`
	Rounds        []Round `json:"rounds" validate:"dive"`
	HRRound       string  `json:"hrRound"`
	OfferDetails  string  `json:"offerDetails"`
	Tips          string  `json:"tips" validate:"required"`
}

// InterviewUpdate is a partial update; nil fields are left alone. The
// author and branch cannot be changed.
type InterviewUpdate struct {
	Company       *string  `json:"company" validate:"omitempty,max=120"`
	Role          *string  `json:"role" validate:"omitempty,max=120"`
	Type          *string  `json:"type"`
	Domain        *string  `json:"domain"`
	InterviewDate *string  `json:"interviewDate"`
	Rounds        *[]Round `json:"rounds" validate:"omitempty,dive"`
	HRRound       *string  `json:"hrRound"`
	OfferDetails  *string  `json:"offerDetails"`
	Tips          *string  `json:"tips"`
}

// InterviewQuery selects interviews for a listing.
type InterviewQuery struct {
	Domain  string
	Type    string
	Branch  string
	Company string
	Role    string
	Author  *primitive.ObjectID
	IDs     []primitive.ObjectID
	Pagination
}

// InterviewPage is the paginated listing response.
type InterviewPage struct {
	Total      int64           `json:"total"`
	Page       int64           `json:"page"`
	Limit      int64           `json:"limit"`
	TotalPages int64           `json:"totalPages"`
	Interviews []InterviewView `json:"interviews"`
}
