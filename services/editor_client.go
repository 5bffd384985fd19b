package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/vnkhanh/e-course-backend/models"
)

// EditorClient drives a course save against the HTTP API: it fetches signed
// upload targets, pushes file bytes and submits the final course update. It
// implements UploadGateway.
type EditorClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func (c *EditorClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

type uploadTargetResponse struct {
	Data struct {
		UploadURL     string `json:"uploadUrl"`
		VideoURL      string `json:"videoUrl"`
		CoverPhotoURL string `json:"coverPhotoUrl"`
	} `json:"data"`
}

// VideoUploadTarget asks the API for a signed video upload URL.
func (c *EditorClient) VideoUploadTarget(ctx context.Context, courseID, sectionID, fileName string) (UploadTarget, error) {
	url := fmt.Sprintf("%s/api/courses/%s/get-video-upload-url?sectionId=%s&fileName=%s", c.BaseURL, courseID, sectionID, fileName)
	var parsed uploadTargetResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return UploadTarget{}, err
	}
	return UploadTarget{UploadURL: parsed.Data.UploadURL, FileURL: parsed.Data.VideoURL}, nil
}

// CoverUploadTarget asks the API for a signed cover photo upload URL.
func (c *EditorClient) CoverUploadTarget(ctx context.Context, courseID, fileName string) (UploadTarget, error) {
	url := fmt.Sprintf("%s/api/courses/%s/get-cover-photo-upload-url?fileName=%s", c.BaseURL, courseID, fileName)
	var parsed uploadTargetResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return UploadTarget{}, err
	}
	return UploadTarget{UploadURL: parsed.Data.UploadURL, FileURL: parsed.Data.CoverPhotoURL}, nil
}

func (c *EditorClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Transfer PUTs the file bytes to a signed upload URL.
func (c *EditorClient) Transfer(ctx context.Context, uploadURL string, file *LocalFile) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(file.Data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %v", err)
	}
	if file.ContentType != "" {
		req.Header.Set("Content-Type", file.ContentType)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload file: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// SaveResult reports what a draft save did: the course as stored after the
// update and any chapter videos that failed to upload and were saved without
// a new video URL.
type SaveResult struct {
	Course         *models.Course
	FailedChapters []ChapterUploadError
}

// SaveDraft runs the full save pipeline for a draft: upload all pending
// chapter videos (failures isolated per chapter), upload the pending cover
// photo (any failure aborts the save), then submit the course update. Video
// failures do not stop the save; the affected chapters keep their previous
// video URL and are reported in the result.
func (c *EditorClient) SaveDraft(ctx context.Context, draft *CourseDraft) (*SaveResult, error) {
	uploader := &Uploader{Gateway: c}

	failures := uploader.UploadAllVideos(ctx, draft)

	if err := uploader.UploadCoverPhoto(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to upload cover photo: %v", err)
	}

	body, contentType, err := encodeDraftForm(draft)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/courses/%s", c.BaseURL, draft.CourseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("save failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed struct {
		Data models.Course `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	return &SaveResult{Course: &parsed.Data, FailedChapters: failures}, nil
}

// encodeDraftForm writes the draft as the multipart form the update endpoint
// accepts, with the array fields JSON-encoded into string fields.
func encodeDraftForm(draft *CourseDraft) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"teacherName":      draft.TeacherName,
		"title":            draft.Title,
		"description":      draft.Description,
		"shortDescription": draft.ShortDescription,
		"category":         draft.Category,
		"subCategory":      draft.SubCategory,
		"price":            draft.Price,
		"level":            draft.Level,
		"status":           draft.Status,
		"image":            draft.Image,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write %s field: %v", name, err)
		}
	}

	encoded := map[string]interface{}{
		"whatYoullLearn": draft.WhatYoullLearn,
		"requirements":   draft.Requirements,
		"sections":       draft.sectionsForSave(),
	}
	for name, value := range encoded {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode %s field: %v", name, err)
		}
		if err := writer.WriteField(name, string(data)); err != nil {
			return nil, "", fmt.Errorf("failed to write %s field: %v", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
