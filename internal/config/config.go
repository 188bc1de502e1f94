package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            int
	LogDirectory    string
	UploadDirectory string
	StaticDirectory string
	MaxUploadSize   int64         // bajty
	ReleaseSettle   time.Duration // pauza po zwolnieniu urządzenia przed kolejną próbą
	Camera          CameraConfig
}

// CameraConfig describes how the camera probe opens devices.
type CameraConfig struct {
	Width        int               `yaml:"width"`
	Height       int               `yaml:"height"`
	ProbeTimeout time.Duration     `yaml:"probe_timeout"`
	Candidates   []CameraCandidate `yaml:"candidates"`
}

// CameraCandidate is one (backend, device index) pair tried by the probe.
type CameraCandidate struct {
	Backend string `yaml:"backend"`
	Index   int    `yaml:"index"`
}

// Load reads an optional .env file, then environment variables, then the
// optional YAML camera file pointed to by CAMERA_CONFIG.
func Load() (*Config, error) {
	// .env jest opcjonalny
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 5000),
		LogDirectory:    getEnv("LOG_DIR", filepath.Join(".", "logs")),
		UploadDirectory: getEnv("UPLOAD_DIR", filepath.Join(".", "uploads")),
		StaticDirectory: getEnv("STATIC_DIR", filepath.Join(".", "static")),
		MaxUploadSize:   getEnvAsInt64("MAX_UPLOAD_MB", 500) * 1024 * 1024,
		ReleaseSettle:   time.Duration(getEnvAsInt("RELEASE_SETTLE_MS", 500)) * time.Millisecond,
		Camera: CameraConfig{
			Width:        640,
			Height:       480,
			ProbeTimeout: time.Duration(getEnvAsInt("PROBE_TIMEOUT_MS", 3000)) * time.Millisecond,
			Candidates:   DefaultCandidates(runtime.GOOS),
		},
	}

	if path := getEnv("CAMERA_CONFIG", ""); path != "" {
		camera, err := LoadCameraConfig(path, cfg.Camera)
		if err != nil {
			return nil, err
		}
		cfg.Camera = camera
	}

	return cfg, nil
}

// LoadCameraConfig reads a YAML camera file. Fields left empty in the file
// keep the values from defaults.
func LoadCameraConfig(path string, defaults CameraConfig) (CameraConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CameraConfig{}, fmt.Errorf("failed to read camera config %s: %w", path, err)
	}

	var camera CameraConfig
	if err := yaml.Unmarshal(data, &camera); err != nil {
		return CameraConfig{}, fmt.Errorf("failed to parse camera config %s: %w", path, err)
	}

	if camera.Width <= 0 {
		camera.Width = defaults.Width
	}
	if camera.Height <= 0 {
		camera.Height = defaults.Height
	}
	if camera.ProbeTimeout == 0 {
		camera.ProbeTimeout = defaults.ProbeTimeout
	}
	if len(camera.Candidates) == 0 {
		camera.Candidates = defaults.Candidates
	}
	return camera, nil
}

// DefaultCandidates returns the probe order for the given GOOS: platform
// backends first, then the generic one, each over device indices 0..2.
func DefaultCandidates(goos string) []CameraCandidate {
	var backends []string
	switch goos {
	case "windows":
		backends = []string{"dshow", "msmf", "any"}
	case "darwin":
		backends = []string{"avfoundation", "any"}
	default:
		backends = []string{"v4l2", "any"}
	}

	candidates := make([]CameraCandidate, 0, len(backends)*3)
	for _, backend := range backends {
		for idx := 0; idx < 3; idx++ {
			candidates = append(candidates, CameraCandidate{Backend: backend, Index: idx})
		}
	}
	return candidates
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
