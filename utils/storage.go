package utils

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"github.com/vnkhanh/e-course-backend/models"
)

func storageBucket() string {
	if b := os.Getenv("STORAGE_BUCKET"); b != "" {
		return b
	}
	return "courses"
}

func storageClient() *storage.Client {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	return storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)
}

// PublicFileURL builds the durable public URL an uploaded object is served
// from: <SUPABASE_URL>/storage/v1/object/public/<bucket>/<objectPath>
func PublicFileURL(objectPath string) string {
	supabaseURL := strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", supabaseURL, storageBucket(), objectPath)
}

// SignVideoUpload issues a signed PUT target for a chapter video, scoped by
// course and section, and returns it with the durable URL the video will be
// served from after the transfer. The target is short-lived (the storage
// backend decides the exact TTL); the client must transfer the bytes promptly.
// Single use is not assumed.
func SignVideoUpload(courseID, sectionID, fileName string) (uploadURL, videoURL string, err error) {
	objectPath := fmt.Sprintf("videos/%s/%s/%s", courseID, sectionID, fileName)
	resp, err := storageClient().CreateSignedUploadUrl(storageBucket(), objectPath)
	if err != nil {
		return "", "", err
	}
	return absoluteStorageURL(resp.Url), PublicFileURL(objectPath), nil
}

// SignCoverUpload issues a signed PUT target for a course cover photo. When
// the course already has a non-placeholder cover, the superseded object is
// deleted first; that deletion is best-effort and never blocks the new upload.
func SignCoverUpload(courseID, fileName, existingImageURL string) (uploadURL, coverPhotoURL string, err error) {
	if existingImageURL != "" && existingImageURL != models.PlaceholderImage {
		if err := DeleteFileByPublicURL(existingImageURL); err != nil {
			log.Printf("failed to delete existing cover photo: %v", err)
		}
	}

	objectPath := fmt.Sprintf("covers/%s/%s", courseID, fileName)
	resp, err := storageClient().CreateSignedUploadUrl(storageBucket(), objectPath)
	if err != nil {
		return "", "", err
	}
	return absoluteStorageURL(resp.Url), PublicFileURL(objectPath), nil
}

// absoluteStorageURL resolves the relative path returned by the storage API
// against SUPABASE_URL.
func absoluteStorageURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	supabaseURL := strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return supabaseURL + "/storage/v1" + u
}

// DeleteFileByPublicURL takes a public URL (or any path containing
// "/storage/v1/object/") and deletes the underlying object.
// Requires SUPABASE_URL and SUPABASE_KEY with delete permission.
func DeleteFileByPublicURL(publicURL string) error {
	if publicURL == "" {
		return nil
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is not configured")
	}

	idx := strings.Index(publicURL, "/storage/v1/object/")
	if idx == -1 {
		return fmt.Errorf("cannot locate object path in URL: %s", publicURL)
	}

	rest := publicURL[idx+len("/storage/v1/object/"):]
	rest = strings.TrimPrefix(rest, "public/")

	// rest => "<bucket>/<path/to/object...>"
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		return fmt.Errorf("cannot parse bucket/object from URL: %s", publicURL)
	}
	bucket := parts[0]
	object := parts[1]
	if qIdx := strings.Index(object, "?"); qIdx != -1 {
		object = object[:qIdx]
	}
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", strings.TrimRight(supabaseURL, "/"), bucket, object)

	req, err := http.NewRequest(http.MethodDelete, deleteURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+supabaseKey)
	req.Header.Set("apikey", supabaseKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// Supabase answers 200 or 204 on successful deletion
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("supabase delete failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
