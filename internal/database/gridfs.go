package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"InstaCatalog/internal/lib/sl"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type siteMetadata struct {
	Username    string    `bson:"username"`
	ContentType string    `bson:"content_type"`
	RenderedAt  time.Time `bson:"rendered_at"`
}

func siteFilename(username string) string {
	return username + ".html"
}

func (m *MongoDB) bucket() (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(m.db(), options.GridFSBucket().SetName(sitesBucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return bucket, nil
}

// SaveSite uploads the page and then removes any previous revision of it.
func (m *MongoDB) SaveSite(ctx context.Context, username string, html []byte) error {
	bucket, err := m.bucket()
	if err != nil {
		return err
	}
	old, err := m.siteFileIDs(ctx, bucket, username)
	if err != nil {
		return err
	}

	meta := siteMetadata{Username: username, ContentType: "text/html; charset=utf-8", RenderedAt: time.Now().UTC()}
	uploadStream, err := bucket.OpenUploadStream(siteFilename(username), options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return fmt.Errorf("gridfs open upload: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = uploadStream.SetWriteDeadline(deadline)
	}
	if _, err = uploadStream.Write(html); err != nil {
		_ = uploadStream.Abort()
		return fmt.Errorf("gridfs write: %w", err)
	}
	if err = uploadStream.Close(); err != nil {
		return fmt.Errorf("gridfs close upload: %w", err)
	}

	for _, id := range old {
		if err := bucket.DeleteContext(ctx, id); err != nil {
			m.log.Warn("removing previous site revision", slog.String("username", username), sl.Err(err))
		}
	}
	return nil
}

func (m *MongoDB) GetSite(ctx context.Context, username string) ([]byte, error) {
	bucket, err := m.bucket()
	if err != nil {
		return nil, err
	}

	stream, err := bucket.OpenDownloadStreamByName(siteFilename(username))
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gridfs open download: %w", err)
	}
	defer stream.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	var buf bytes.Buffer
	if _, err = buf.ReadFrom(stream); err != nil {
		return nil, fmt.Errorf("gridfs read: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *MongoDB) deleteSite(ctx context.Context, username string) (int, error) {
	bucket, err := m.bucket()
	if err != nil {
		return 0, err
	}
	ids, err := m.siteFileIDs(ctx, bucket, username)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := bucket.DeleteContext(ctx, id); err != nil {
			return 0, fmt.Errorf("gridfs delete: %w", err)
		}
	}
	return len(ids), nil
}

func (m *MongoDB) siteFileIDs(ctx context.Context, bucket *gridfs.Bucket, username string) ([]primitive.ObjectID, error) {
	cursor, err := bucket.FindContext(ctx, bson.D{{Key: "filename", Value: siteFilename(username)}})
	if err != nil {
		return nil, fmt.Errorf("gridfs find: %w", err)
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("gridfs decode: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	return ids, nil
}
