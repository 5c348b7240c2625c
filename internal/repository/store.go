package repository

import (
	"context"

	"testgen/internal/firestore"
)

// DocumentStore is the subset of the document store client the repositories use
type DocumentStore interface {
	GetDocument(ctx context.Context, idToken, path string) (*firestore.Document, error)
	PatchDocument(ctx context.Context, idToken, path string, fields firestore.Fields) (*firestore.Document, error)
	CreateDocument(ctx context.Context, idToken, collection string, fields firestore.Fields) (*firestore.Document, error)
}

var _ DocumentStore = (*firestore.Client)(nil)
