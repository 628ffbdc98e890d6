package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/inovacc/journal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() []model.Entry {
	return []model.Entry{
		model.RemoteRecord{Date: "2024-01-01", Text: "hello from the server"}.ToEntry(0),
		{ID: 1000, Title: "Day 1", Content: "local words here", Date: "2023-12-31", Time: "10:00:00", Source: model.SourceLocal},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: JSON},
		{in: "json", want: JSON},
		{in: ".XLSX", want: XLSX},
		{in: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 6, 30, 23, 30, 0, 0, time.FixedZone("x", -3*3600))

	assert.Equal(t, "learning-journal-export-2024-07-01.json", Filename(JSON, now))
	assert.Equal(t, "learning-journal-export-2024-07-01.xlsx", Filename(XLSX, now))
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, sample()))

	var got []model.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample(), got)

	buf.Reset()
	require.NoError(t, Write(&buf, JSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, XLSX, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "title", "content", "date", "time", "source", "words"}, rows[0])
	assert.Equal(t, "hello from the server", rows[1][2])
	assert.Equal(t, "remote", rows[1][5])
	assert.Equal(t, "3", rows[2][6])
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC)

	where, err := Run(context.Background(), FileSink{Dir: dir}, JSON, sample(), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "learning-journal-export-2024-02-03.json"), where)

	data, err := os.ReadFile(where)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the server")

	explicit := filepath.Join(dir, "out", "mine.json")
	where, err = Run(context.Background(), FileSink{Path: explicit}, JSON, nil, now)
	require.NoError(t, err)
	assert.Equal(t, explicit, where)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)

	return &s3.PutObjectOutput{}, f.err
}

func TestS3Sink(t *testing.T) {
	client := &fakeS3{}
	now := time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC)

	where, err := Run(context.Background(), NewS3Sink(client, "journal-backups", "exports/"), XLSX, sample(), now)
	require.NoError(t, err)

	assert.Equal(t, "s3://journal-backups/exports/learning-journal-export-2024-02-03.xlsx", where)
	assert.Equal(t, "journal-backups", aws.ToString(client.input.Bucket))
	assert.Equal(t, ContentType(XLSX), aws.ToString(client.input.ContentType))
	assert.NotEmpty(t, client.body)

	client.err = errors.New("access denied")
	_, err = Run(context.Background(), NewS3Sink(client, "b", ""), JSON, nil, now)
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3Client(t *testing.T) {
	c := NewS3Client(model.ExportConfig{S3Region: "eu-west-1", S3Endpoint: "http://127.0.0.1:9000"})

	opts := c.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
}
