package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate record")
)

// Collection names.
const (
	usersCollection      = "users"
	interviewsCollection = "interviews"
	tweetsCollection     = "tweets"
	commentsCollection   = "comments"
	likesCollection      = "likes"
)

func mongoErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func gormErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}
