package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/anonto42/campus-diary/backend/pkg/sanitize"
)

// CommentService manages comments and replies on interviews and tweets.
type CommentService struct {
	comments repositories.CommentRepository
	posts    postLookup
}

func NewCommentService(
	comments repositories.CommentRepository,
	interviews repositories.InterviewRepository,
	tweets repositories.TweetRepository,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    postLookup{interviews: interviews, tweets: tweets},
	}
}

func commentContent(content string) (string, error) {
	content = sanitize.Text(content)
	if content == "" {
		return "", apperror.BadRequest("Content is required")
	}
	return content, nil
}

// List returns one page of every comment on the post, newest first.
// Replies are not filtered out.
func (s *CommentService) List(ctx context.Context, ref models.PostRef, page models.Pagination) (*models.CommentPage, error) {
	if err := s.posts.mustExist(ctx, ref); err != nil {
		return nil, err
	}
	page = NewPagination(page.Page, page.Limit)
	views, total, err := s.comments.ListComments(ctx, ref, page)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &models.CommentPage{
		Comments:      views,
		TotalComments: total,
		CurrentPage:   page.Page,
		TotalPages:    page.TotalPages(total),
	}, nil
}

func (s *CommentService) create(ctx context.Context, comment *models.Comment) (*models.CommentView, error) {
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, storeErr(err, "")
	}
	view, err := s.comments.GetCommentView(ctx, comment.ID)
	return view, storeErr(err, "Comment not found")
}

func (s *CommentService) Add(ctx context.Context, ref models.PostRef, author primitive.ObjectID, content string) (*models.CommentView, error) {
	content, err := commentContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.posts.mustExist(ctx, ref); err != nil {
		return nil, err
	}
	comment := &models.Comment{Content: content, Author: author}
	comment.SetTarget(ref)
	return s.create(ctx, comment)
}

// Reply adds a reply under the parent comment, which must belong to the
// same post.
func (s *CommentService) Reply(ctx context.Context, ref models.PostRef, parentHex string, author primitive.ObjectID, content string) (*models.CommentView, error) {
	content, err := commentContent(content)
	if err != nil {
		return nil, err
	}
	parentID, err := ParseID(parentHex, "comment")
	if err != nil {
		return nil, err
	}
	parent, err := s.comments.GetCommentByID(ctx, parentID)
	if err != nil {
		return nil, storeErr(err, "Parent comment not found")
	}
	if !parent.BelongsTo(ref) {
		return nil, apperror.NotFound("Parent comment not found")
	}

	reply := &models.Comment{Content: content, Author: author, ParentComment: &parent.ID}
	reply.SetTarget(ref)
	return s.create(ctx, reply)
}

// Replies lists the direct replies of a comment, oldest first.
func (s *CommentService) Replies(ctx context.Context, commentHex string) ([]models.CommentView, error) {
	id, err := ParseID(commentHex, "comment")
	if err != nil {
		return nil, err
	}
	if _, err := s.comments.GetCommentByID(ctx, id); err != nil {
		return nil, storeErr(err, "Comment not found")
	}
	views, err := s.comments.ListReplies(ctx, id)
	return views, storeErr(err, "")
}

// owned finds the comment on ref and checks that caller wrote it.
func (s *CommentService) owned(ctx context.Context, ref models.PostRef, commentHex string, caller primitive.ObjectID) (*models.Comment, error) {
	id, err := ParseID(commentHex, "comment")
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Comment not found")
	}
	if !comment.BelongsTo(ref) {
		return nil, apperror.NotFound("Comment not found")
	}
	if comment.Author != caller {
		return nil, apperror.Forbidden("You can only modify your own comments")
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, ref models.PostRef, commentHex string, caller primitive.ObjectID, content string) (*models.CommentView, error) {
	content, err := commentContent(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.owned(ctx, ref, commentHex, caller)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateCommentContent(ctx, comment.ID, content); err != nil {
		return nil, storeErr(err, "Comment not found")
	}
	view, err := s.comments.GetCommentView(ctx, comment.ID)
	return view, storeErr(err, "Comment not found")
}

func (s *CommentService) Delete(ctx context.Context, ref models.PostRef, commentHex string, caller primitive.ObjectID) error {
	comment, err := s.owned(ctx, ref, commentHex, caller)
	if err != nil {
		return err
	}
	return storeErr(s.comments.DeleteComment(ctx, comment.ID), "Comment not found")
}
