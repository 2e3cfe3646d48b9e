package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------- ValidateConfigPath ----------

func TestValidateConfigPath_Valid(t *testing.T) {
	cases := []string{
		"configs/default.yaml",
		"./configs/mavic3e.yaml",
		filepath.Join(t.TempDir(), "configs", "survey.yaml"),
		filepath.Join(t.TempDir(), "configs", "con fig.yaml"),
		filepath.Join(t.TempDir(), "configs", "café.yaml"),
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err != nil {
			t.Errorf("expected valid path %q, got error: %v", path, err)
		}
	}
}

func TestValidateConfigPath_Rejects(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"traversal", "../../etc/passwd"},
		{"traversal_out_of_configs", "configs/../../../etc/shadow.yaml"},
		{"json", "configs/default.json"},
		{"yml", "configs/default.yml"},
		{"no_extension", "configs/default"},
		{"other_dir", "other/default.yaml"},
		{"bare_file", "default.yaml"},
		{"absolute_outside", "/tmp/default.yaml"},
		{"nested_configs", "configs/site/default.yaml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateConfigPath(tc.path); err == nil {
				t.Errorf("expected error for %q, got nil", tc.path)
			}
		})
	}
}

func TestValidateConfigPath_VeryLongPath(t *testing.T) {
	long := "configs/" + strings.Repeat("a", 1000) + ".yaml"
	// Must not panic.
	_ = ValidateConfigPath(long)
}

// ---------- Load ----------

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgDir := filepath.Join(t.TempDir(), "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
camera:
  name: "Full frame 1080p"
  fx: 1000
  fy: 1000
  cx: 960
  cy: 540
  sensor_size_x_mm: 36
  sensor_size_y_mm: 24
  image_size_x: 1920
  image_size_y: 1080
dataset:
  overlap: 0.7
  sidelap: 0.6
  height: 30
  scan_dimension_x: 150
  scan_dimension_y: 80
  exposure_time_ms: 2
defaults:
  allowed_motion_px: 1.5
  debug_level: 2
web:
  requests_per_second: 5
  burst: 10
`

func TestLoad_ValidFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Camera.Name != "Full frame 1080p" {
		t.Errorf("camera.name = %q", cfg.Camera.Name)
	}
	if cfg.Camera.Fx != 1000 || cfg.Camera.Cy != 540 {
		t.Errorf("camera intrinsics = %+v", cfg.Camera)
	}
	if cfg.Camera.ImageSizeX != 1920 || cfg.Camera.ImageSizeY != 1080 {
		t.Errorf("image size = %dx%d, want 1920x1080", cfg.Camera.ImageSizeX, cfg.Camera.ImageSizeY)
	}
	if cfg.Dataset.Overlap != 0.7 || cfg.Dataset.Sidelap != 0.6 {
		t.Errorf("overlap/sidelap = %v/%v, want 0.7/0.6", cfg.Dataset.Overlap, cfg.Dataset.Sidelap)
	}
	if cfg.Dataset.Height != 30 {
		t.Errorf("height = %v, want 30", cfg.Dataset.Height)
	}
	if cfg.Dataset.ScanDimensionX != 150 || cfg.Dataset.ScanDimensionY != 80 {
		t.Errorf("scan = %vx%v, want 150x80", cfg.Dataset.ScanDimensionX, cfg.Dataset.ScanDimensionY)
	}
	if cfg.Dataset.ExposureTimeMs != 2 {
		t.Errorf("exposure_time_ms = %v, want 2", cfg.Dataset.ExposureTimeMs)
	}
	if cfg.Defaults.AllowedMotionPx != 1.5 {
		t.Errorf("allowed_motion_px = %v, want 1.5", cfg.Defaults.AllowedMotionPx)
	}
	if cfg.Defaults.DebugLevel != 2 {
		t.Errorf("debug_level = %d, want 2", cfg.Defaults.DebugLevel)
	}
	if cfg.Web.RequestsPerSecond != 5 || cfg.Web.Burst != 10 {
		t.Errorf("web = %+v, want 5 rps / burst 10", cfg.Web)
	}
}

func TestLoad_Defaults(t *testing.T) {
	yaml := strings.Replace(validYAML, `defaults:
  allowed_motion_px: 1.5
  debug_level: 2
web:
  requests_per_second: 5
  burst: 10
`, "", 1)
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.AllowedMotionPx != 1 {
		t.Errorf("allowed_motion_px default = %v, want 1", cfg.Defaults.AllowedMotionPx)
	}
	if cfg.Defaults.DebugLevel != 0 {
		t.Errorf("debug_level default = %d, want 0", cfg.Defaults.DebugLevel)
	}
	if cfg.Web.RequestsPerSecond != 2 || cfg.Web.Burst != 4 {
		t.Errorf("web defaults = %+v, want 2 rps / burst 4", cfg.Web)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		wantErr string
	}{
		{"overlap_one", "overlap: 0.7", "overlap: 1.0", "dataset: overlap"},
		{"sidelap_negative", "sidelap: 0.6", "sidelap: -0.1", "dataset: sidelap"},
		{"height_zero", "height: 30", "height: 0", "dataset: height"},
		{"scan_negative", "scan_dimension_x: 150", "scan_dimension_x: -5", "dataset: scan_dimension_x"},
		{"exposure_zero", "exposure_time_ms: 2", "exposure_time_ms: 0", "dataset: exposure_time_ms"},
		{"fx_zero", "fx: 1000", "fx: 0", "camera: fx"},
		{"sensor_negative", "sensor_size_y_mm: 24", "sensor_size_y_mm: -24", "camera: sensor_size_y_mm"},
		{"image_zero", "image_size_x: 1920", "image_size_x: 0", "camera: image_size_x"},
		{"debug_level", "debug_level: 2", "debug_level: 9", "debug_level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			yaml := strings.Replace(validYAML, tc.from, tc.to, 1)
			_, err := Load(writeConfig(t, yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "configs", "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "read config file") {
		t.Errorf("error = %v, want read error", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "camera: [unclosed"))
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "unmarshal yaml") {
		t.Errorf("error = %v, want unmarshal error", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	// No camera at all: the first camera field is reported.
	_, err := Load(writeConfig(t, "{}"))
	if err == nil || !strings.Contains(err.Error(), "camera: fx") {
		t.Errorf("expected camera fx error, got %v", err)
	}
}
