package notification

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
)

const feedCollection = "notifications"

// FeedWriter stores in-app notification documents that clients read directly.
type FeedWriter interface {
	AddDocument(ctx context.Context, doc map[string]interface{}) (documentID string, err error)
}

// FirestoreFeed is a FeedWriter backed by a Cloud Firestore collection.
type FirestoreFeed struct {
	client *firestore.Client
}

func NewFirestoreFeed(client *firestore.Client) *FirestoreFeed {
	return &FirestoreFeed{client: client}
}

func (f *FirestoreFeed) AddDocument(ctx context.Context, doc map[string]interface{}) (string, error) {
	ref, _, err := f.client.Collection(feedCollection).Add(ctx, doc)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// SystemSender delivers the "system" channel by writing to the in-app feed.
type SystemSender struct {
	feed FeedWriter
}

func NewSystemSender(feed FeedWriter) *SystemSender {
	return &SystemSender{feed: feed}
}

func (s *SystemSender) Available(recipient Recipient) bool {
	return s.feed != nil
}

func (s *SystemSender) Send(ctx context.Context, notification db.Notification, recipient Recipient) (Result, error) {
	if s.feed == nil {
		return Result{}, fmt.Errorf("%w: in-app feed not configured", ErrChannelUnavailable)
	}

	doc := map[string]interface{}{
		"notificationID": notification.ID,
		"recipientID":    notification.UserID,
		"title":          notification.Title,
		"message":        notification.Message,
		"category":       notification.Category,
		"priority":       string(notification.Priority),
		"referenceType":  notification.ReferenceType.String,
		"referenceID":    notification.ReferenceID.Int64,
		"isRead":         false,
		"createdAt":      notification.CreatedAt,
	}

	docID, err := s.feed.AddDocument(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	return Result{
		Metadata: map[string]interface{}{
			"firestore_doc_id": docID,
		},
	}, nil
}
