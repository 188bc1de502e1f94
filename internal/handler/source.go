package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"trafficflow/internal/config"
	"trafficflow/internal/dto"
	"trafficflow/internal/logger"
	"trafficflow/internal/service"
	"trafficflow/internal/service/storage"
)

const multipartMemory = 32 << 20

// SwitchSourceHandler activates the camera. Only camera sources can be
// selected here; files arrive through the upload endpoint.
func SwitchSourceHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}

		req := dto.SwitchSourceRequest{Source: "webcam"}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid JSON body")
				return
			}
		}

		switch strings.ToLower(req.Source) {
		case "webcam", "camera":
		default:
			writeError(w, http.StatusBadRequest, "Invalid source")
			return
		}

		if err := manager.SelectCameraSource(); err != nil {
			writeError(w, http.StatusOK, "Cannot access webcam. Please check if camera is connected and not used by another application.")
			return
		}
		writeJSON(w, http.StatusOK, dto.NewSuccess("Webcam activated successfully"))
	}
}

// UploadVideoHandler stores the multipart "video" file and makes it the
// active source.
func UploadVideoHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadSize)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
				writeError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("File too large (max %d MB)", cfg.MaxUploadSize/(1024*1024)))
				return
			}
			writeError(w, http.StatusBadRequest, "No video file provided")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("video")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No video file provided")
			return
		}
		defer file.Close()

		if header.Filename == "" {
			writeError(w, http.StatusBadRequest, "No file selected")
			return
		}

		filename, err := storage.SanitizeFilename(header.Filename)
		if err != nil {
			logger.Warning("Rejected upload %q: %v", header.Filename, err)
			writeError(w, http.StatusBadRequest, "Invalid file type. Use: "+allowedExtensionList())
			return
		}

		if err := manager.UploadVideo(filename, file); err != nil {
			writeError(w, http.StatusOK, "Video uploaded but cannot be processed")
			return
		}
		writeJSON(w, http.StatusOK, dto.NewSuccess("Video uploaded and loaded successfully"))
	}
}

// DeleteVideoHandler releases the active source and removes stored uploads.
func DeleteVideoHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}

		count := manager.ReleaseActiveSource()
		logger.Info("Source released, %d file(s) deleted", count)
		writeJSON(w, http.StatusOK, dto.NewSuccess(fmt.Sprintf("Deleted %d file(s)", count)))
	}
}

func allowedExtensionList() string {
	exts := make([]string, 0, len(storage.AllowedExtensions))
	for ext := range storage.AllowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
