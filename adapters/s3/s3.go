package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Operator struct {
	// Client 是 S3 客戶端。
	Client *s3.Client
	// Bucket 是存放刊登圖片的 S3 存儲桶名稱。
	Bucket string
	// PublicEndpoint 是 S3 存儲桶的公開 Endpoint，
	// 上傳成功後會以此組合出圖片的公開 URL。
	PublicEndpoint *url.URL
}

func NewS3Operator(client *s3.Client, bucket, publicBaseURL string) (*S3Operator, error) {
	const op = "NewS3Operator"
	publicEndpoint, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse public base URL, err=%w", op, err)
	}
	return &S3Operator{Client: client, Bucket: bucket, PublicEndpoint: publicEndpoint}, nil
}

// ListingObjectKey 產生刊登圖片的儲存路徑
// 以隨機識別碼作為命名空間，避免不同刊登之間的檔名衝突
func ListingObjectKey(filename string) string {
	return fmt.Sprintf("items/%s-%s", uuid.New(), filename)
}

// UploadListingImage 將刊登圖片上傳到 S3 並返回公開 URL
func (s *S3Operator) UploadListingImage(ctx context.Context, key, contentType string, content []byte) (string, error) {
	const op = "UploadListingImage"
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to upload listing image to S3, err=%w", op, err)
	}
	uri := *s.PublicEndpoint
	uri.Path = key
	return uri.String(), nil
}
