package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// MaxImageSize 上传图片大小上限
const MaxImageSize = 10 * 1024 * 1024

// ImageUploadResult 上传结果
type ImageUploadResult struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	Format   string `json:"format"`
	Width    int64  `json:"width"`
	Height   int64  `json:"height"`
	ByteSize int64  `json:"bytes"`
}

// ImageUploader 图片托管服务（Cloudinary unsigned upload）
type ImageUploader struct {
	baseURL      string
	cloudName    string
	uploadPreset string
	client       *http.Client
}

func NewImageUploader(baseURL, cloudName, uploadPreset string) *ImageUploader {
	return &ImageUploader{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (u *ImageUploader) Configured() bool {
	return u.cloudName != "" && u.uploadPreset != ""
}

// Upload 上传图片，返回 https 链接
func (u *ImageUploader) Upload(ctx context.Context, file io.Reader, filename string) (*ImageUploadResult, error) {
	if !u.Configured() {
		return nil, fmt.Errorf("image hosting is not configured")
	}

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("写入请求体失败: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(file, MaxImageSize+1)); err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.uploadPreset); err != nil {
		return nil, fmt.Errorf("写入请求体失败: %w", err)
	}
	writer.Close()

	endpoint := fmt.Sprintf("%s/%s/image/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &requestBody)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("上传请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	res := gjson.ParseBytes(body)
	if resp.StatusCode != http.StatusOK {
		msg := res.Get("error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("upload rejected (status %d): %s", resp.StatusCode, msg)
	}

	secureURL := res.Get("secure_url").String()
	if secureURL == "" {
		return nil, fmt.Errorf("upload response has no secure_url")
	}

	return &ImageUploadResult{
		URL:      secureURL,
		ID:       res.Get("public_id").String(),
		Format:   res.Get("format").String(),
		Width:    res.Get("width").Int(),
		Height:   res.Get("height").Int(),
		ByteSize: res.Get("bytes").Int(),
	}, nil
}
