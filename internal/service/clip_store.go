package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ClipStore keeps synthesized audio and hands out links to it.
type ClipStore interface {
	// Save uploads the clip and returns a presigned download URL.
	Save(ctx context.Context, userID string, audio []byte) (string, error)
}

type s3ClipStore struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	expires       time.Duration
	logger        zerolog.Logger
}

// NewS3ClipStore creates a ClipStore writing to bucketName. Links expire after expires.
func NewS3ClipStore(s3Client *s3.Client, bucketName string, expires time.Duration, logger zerolog.Logger) ClipStore {
	if expires <= 0 {
		expires = 15 * time.Minute
	}
	return &s3ClipStore{
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		expires:       expires,
		logger:        logger.With().Str("service", "ClipStore").Logger(),
	}
}

func (s *s3ClipStore) Save(ctx context.Context, userID string, audio []byte) (string, error) {
	key := fmt.Sprintf("clips/%s/%s.mp3", userID, uuid.NewString())
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(audio),
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload clip")
		return "", fmt.Errorf("%w: uploading clip: %w", ErrPersistence, err)
	}

	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to generate presigned URL")
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return resp.URL, nil
}
