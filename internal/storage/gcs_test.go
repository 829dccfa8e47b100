package storage

import "testing"

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://reports/input/transaction-report.csv", "reports", "input/transaction-report.csv", false},
		{"gs://reports/file.csv", "reports", "file.csv", false},
		{"gs://reports", "", "", true},
		{"gs://reports/", "", "", true},
		{"gs:///file.csv", "", "", true},
		{"data/input/transaction-report.csv", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGCSURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseGCSURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestExtractFilename(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"gs://bucket/folder/file.csv", "file.csv"},
		{"gs://bucket/file.csv", "file.csv"},
		{"gs://bucket", "bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			if got := ExtractFilename(tt.uri); got != tt.want {
				t.Errorf("ExtractFilename(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestIsGCSURI(t *testing.T) {
	if !IsGCSURI("gs://b/o") {
		t.Error("expected gs://b/o to be a GCS URI")
	}
	if IsGCSURI("/tmp/o.csv") {
		t.Error("expected local path not to be a GCS URI")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"report.csv":           "text/csv; charset=utf-8",
		"report.txt":           "text/plain; charset=utf-8",
		"ai_final_summary.TXT": "text/plain; charset=utf-8",
		"archive.bin":          "application/octet-stream",
	}
	for name, want := range tests {
		if got := contentType(name); got != want {
			t.Errorf("contentType(%q) = %q, want %q", name, got, want)
		}
	}
}
