package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"deezed-physique-server/modules/common/config"
)

// Client - S3 호환 스토리지 클라이언트 (presigned URL 발급 + 직접 업로드)
type Client struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	expiry        time.Duration
}

// UploadTicket - presigned 업로드 URL 발급 결과
type UploadTicket struct {
	UploadURL  string `json:"uploadUrl"`
	StorageKey string `json:"storageKey"`
	ExpiresIn  int    `json:"expiresIn"`
}

// NewClient - Storage 클라이언트 생성
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = cfg.S3ForcePathStyle
	})

	log.Printf("✅ S3 client initialized (bucket: %s)", cfg.S3Bucket)

	return &Client{
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.S3Bucket,
		expiry:        time.Duration(cfg.SignedURLExpirySeconds) * time.Second,
	}, nil
}

// CreateUploadURL - 사용자가 직접 업로드할 presigned PUT URL 발급
func (c *Client) CreateUploadURL(ctx context.Context, userID, photoType, contentType string) (*UploadTicket, error) {
	storageKey := fmt.Sprintf("%s/%s/%s", userID, photoType, uuid.NewString())

	request, err := c.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(storageKey),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"userId":    userID,
			"photoType": photoType,
		},
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	}, s3.WithPresignExpires(c.expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	log.Printf("📤 Upload URL issued: %s (expires in %v)", storageKey, c.expiry)

	return &UploadTicket{
		UploadURL:  request.URL,
		StorageKey: storageKey,
		ExpiresIn:  int(c.expiry.Seconds()),
	}, nil
}

// CreateDownloadURL - 시간 제한 다운로드 URL 발급
func (c *Client) CreateDownloadURL(ctx context.Context, storageKey string) (string, error) {
	request, err := c.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(c.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}

	return request.URL, nil
}

// UploadBuffer - 서버에서 생성한 바이너리를 직접 업로드 (합성 결과물용)
func (c *Client) UploadBuffer(ctx context.Context, userID, photoType string, data []byte, contentType string) (string, error) {
	storageKey := fmt.Sprintf("%s/%s/%s", userID, photoType, uuid.NewString())

	log.Printf("📤 Uploading buffer to storage: %s (%d bytes)", storageKey, len(data))

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(storageKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"userId":    userID,
			"photoType": photoType,
		},
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload buffer: %w", err)
	}

	log.Printf("✅ Buffer uploaded successfully: %s", storageKey)
	return storageKey, nil
}
