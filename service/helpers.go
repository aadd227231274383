package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/athenaeum/data"
	"github.com/gabriel-vasile/mimetype"
)

// detectMimeType detects and validates the content type of a multipart file to ensure it is supported.
// The whole file is read into a buffer first because the multipart file becomes corrupted once it's
// parsed to detect its mime type.
func (s *service) detectMimeType(file multipart.File, fileHeader *multipart.FileHeader) ([]byte, *mimetype.MIME, error) {
	size := fileHeader.Size
	buffer := make([]byte, size)
	_, err := file.Read(buffer)
	if err != nil {
		return nil, nil, err
	}
	mtype := mimetype.Detect(buffer)
	return buffer, mtype, nil
}

// uploadFileToS3 saves a form file to aws bucket and returns the key to the s3 file or an error if any.
// Covers and profile images are public-read browse assets, e-book documents are stored for attachment
// download.
func (s *service) uploadFileToS3(client *s3.Client, buffer []byte, mtype *mimetype.MIME, fileHeader *multipart.FileHeader, scope string) (string, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}
	var uniqueFileName string
	uploader := manager.NewUploader(client)
	switch scope {
	case data.ScopeCover:
		uniqueFileName = "covers/" + strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)) + filepath.Ext(fileHeader.Filename)
		_, err = uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:        aws.String(s.config.S3.Bucket),
			Key:           aws.String(uniqueFileName),
			Body:          bytes.NewReader(buffer),
			ContentLength: *aws.Int64(fileHeader.Size),
			ContentType:   aws.String(mtype.String()),
		})
		uniqueFileName = "https://" + s.config.S3.Bucket + ".s3." + s.config.S3.Region + ".amazonaws.com/" + uniqueFileName
	case data.ScopeProfilePic:
		uniqueFileName = "profiles/" + strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)) + filepath.Ext(fileHeader.Filename)
		_, err = uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:        aws.String(s.config.S3.Bucket),
			Key:           aws.String(uniqueFileName),
			Body:          bytes.NewReader(buffer),
			ContentLength: *aws.Int64(fileHeader.Size),
			ContentType:   aws.String(mtype.String()),
		})
		uniqueFileName = "https://" + s.config.S3.Bucket + ".s3." + s.config.S3.Region + ".amazonaws.com/" + uniqueFileName
	case data.ScopeDocument:
		uniqueFileName = "documents/" + strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)) + filepath.Ext(fileHeader.Filename)
		_, err = uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:             aws.String(s.config.S3.Bucket),
			Key:                aws.String(uniqueFileName),
			Body:               bytes.NewReader(buffer),
			ContentLength:      *aws.Int64(fileHeader.Size),
			ContentType:        aws.String(mtype.String()),
			ContentDisposition: aws.String("attachment"),
		})
	}
	if err != nil {
		return "", err
	}
	return uniqueFileName, nil
}

// background launches a background goroutine and recovers from panics inside
// the goroutine. It accepts an arbitrary function as a parameter and executes
// the function parameter inside the goroutine.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}
