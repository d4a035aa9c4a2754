package task

import (
	"strings"
	"time"

	"taskManager/internal/models/validate"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    uuid.UUID  `json:"task_id"`
	UserID    uuid.UUID  `json:"user_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Content   string     `json:"content"`
	IsEdited  bool       `json:"is_edited"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	// AuthorName is read from the users table.
	AuthorName string `json:"author_name,omitempty"`
}

func NewComment(taskID, userID uuid.UUID, parentID *uuid.UUID, content string, now time.Time) (*Comment, error) {
	content, err := checkContent(content)
	if err != nil {
		return nil, err
	}
	return &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Comment) Edit(content string, now time.Time) error {
	content, err := checkContent(content)
	if err != nil {
		return err
	}
	c.Content = content
	c.IsEdited = true
	c.UpdatedAt = now
	return nil
}

func checkContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", validate.Field("content", "Comment content is required")
	}
	return content, nil
}

// Thread is a comment with its replies.
type Thread struct {
	*Comment
	Replies []*Thread `json:"replies"`
}

// BuildThreads arranges comments into trees, keeping input order among
// siblings. Comments whose parent is missing become roots.
func BuildThreads(comments []*Comment) []*Thread {
	nodes := make(map[uuid.UUID]*Thread, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &Thread{Comment: c, Replies: []*Thread{}}
	}

	roots := make([]*Thread, 0)
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
