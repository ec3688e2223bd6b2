package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeClient counts S3 calls and fails PutObject with NoSuchBucket until
// CreateBucket has been called.
type fakeClient struct {
	bucketExists bool
	putErr       error
	createErr    error
	puts         int
	creates      int
	accessBlocks int
	policies     int
	lastKey      string
	lastBody     []byte
	lastPolicy   string
}

func (f *fakeClient) PutObject(_ context.Context, input *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	f.puts++
	f.lastKey = *input.Key
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.lastBody = body
	if f.putErr != nil {
		return nil, f.putErr
	}
	if !f.bucketExists {
		return nil, &s3types.NoSuchBucket{}
	}
	return &awss3.PutObjectOutput{}, nil
}

func (f *fakeClient) GetObject(_ context.Context, _ *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) CreateBucket(_ context.Context, _ *awss3.CreateBucketInput, _ ...func(*awss3.Options)) (*awss3.CreateBucketOutput, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.bucketExists = true
	return &awss3.CreateBucketOutput{}, nil
}

func (f *fakeClient) PutPublicAccessBlock(_ context.Context, _ *awss3.PutPublicAccessBlockInput, _ ...func(*awss3.Options)) (*awss3.PutPublicAccessBlockOutput, error) {
	f.accessBlocks++
	return &awss3.PutPublicAccessBlockOutput{}, nil
}

func (f *fakeClient) PutBucketPolicy(_ context.Context, input *awss3.PutBucketPolicyInput, _ ...func(*awss3.Options)) (*awss3.PutBucketPolicyOutput, error) {
	f.policies++
	f.lastPolicy = *input.Policy
	return &awss3.PutBucketPolicyOutput{}, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "123_resume.pdf", want: "123_resume.pdf"},
		{name: "simple prefix", prefix: "resumes", key: "123_resume.pdf", want: "resumes/123_resume.pdf"},
		{name: "prefix trailing slash", prefix: "resumes/", key: "123_resume.pdf", want: "resumes/123_resume.pdf"},
		{name: "prefix and key slashes", prefix: "/resumes/", key: "/123_resume.pdf", want: "resumes/123_resume.pdf"},
		{name: "nested prefix", prefix: "resumes/2026", key: "123_resume.pdf", want: "resumes/2026/123_resume.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	store := &Store{bucket: "resumatch-resumes", region: "eu-west-1"}
	got := store.publicURL("resumes/123_resume.pdf")
	want := "https://resumatch-resumes.s3.eu-west-1.amazonaws.com/resumes/123_resume.pdf"
	if got != want {
		t.Fatalf("publicURL = %q, want %q", got, want)
	}

	noRegion := &Store{bucket: "resumatch-resumes"}
	if got := noRegion.publicURL("x.pdf"); got != "https://resumatch-resumes.s3.us-east-1.amazonaws.com/x.pdf" {
		t.Fatalf("publicURL without region = %q", got)
	}
}

func TestSaveCreatesMissingBucketAndRetriesOnce(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	store := &Store{client: client, bucket: "resumatch-resumes", prefix: "resumes", region: "eu-west-1"}

	url, err := store.Save(context.Background(), "My Resume.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if client.puts != 2 {
		t.Fatalf("expected 2 PutObject calls (initial + retry), got %d", client.puts)
	}
	if client.creates != 1 {
		t.Fatalf("expected exactly 1 CreateBucket call, got %d", client.creates)
	}
	if string(client.lastBody) != "%PDF-1.4" {
		t.Fatalf("retried upload body = %q", client.lastBody)
	}
	if !strings.HasPrefix(client.lastKey, "resumes/") || !strings.HasSuffix(client.lastKey, "_My_Resume.pdf") {
		t.Fatalf("unexpected object key %q", client.lastKey)
	}

	want := "https://resumatch-resumes.s3.eu-west-1.amazonaws.com/" + client.lastKey
	if url != want {
		t.Fatalf("Save url = %q, want %q", url, want)
	}
}

func TestSaveSkipsBucketCreationWhenBucketExists(t *testing.T) {
	t.Parallel()

	client := &fakeClient{bucketExists: true}
	store := &Store{client: client, bucket: "resumatch-resumes", region: "eu-west-1"}

	if _, err := store.Save(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if client.puts != 1 {
		t.Fatalf("expected 1 PutObject call, got %d", client.puts)
	}
	if client.creates != 0 {
		t.Fatalf("expected no CreateBucket call, got %d", client.creates)
	}
}

func TestSaveSurfacesBucketCreationFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{createErr: errors.New("api error AccessDenied")}
	store := &Store{client: client, bucket: "resumatch-resumes", region: "eu-west-1"}

	_, err := store.Save(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	if err == nil {
		t.Fatalf("expected error when bucket creation fails")
	}
	if client.puts != 1 {
		t.Fatalf("expected no retried upload, got %d PutObject calls", client.puts)
	}
}

func TestSaveSurfacesNonBucketUploadError(t *testing.T) {
	t.Parallel()

	client := &fakeClient{bucketExists: true, putErr: errors.New("api error AccessDenied")}
	store := &Store{client: client, bucket: "resumatch-resumes", region: "eu-west-1"}

	if _, err := store.Save(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("%PDF-1.4")); err == nil {
		t.Fatalf("expected upload error to surface")
	}
	if client.creates != 0 {
		t.Fatalf("expected no CreateBucket call for a non-bucket error, got %d", client.creates)
	}
}

func TestCreateBucketAttachesPublicReadPolicy(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	store := &Store{client: client, bucket: "resumatch-resumes", region: "eu-west-1"}

	if err := store.createBucket(context.Background()); err != nil {
		t.Fatalf("createBucket returned error: %v", err)
	}
	if client.accessBlocks != 1 {
		t.Fatalf("expected 1 PutPublicAccessBlock call, got %d", client.accessBlocks)
	}
	if client.policies != 1 {
		t.Fatalf("expected 1 PutBucketPolicy call, got %d", client.policies)
	}
	if !strings.Contains(client.lastPolicy, `"s3:GetObject"`) {
		t.Fatalf("policy missing s3:GetObject grant: %s", client.lastPolicy)
	}
	if !strings.Contains(client.lastPolicy, "arn:aws:s3:::resumatch-resumes/*") {
		t.Fatalf("policy missing bucket resource: %s", client.lastPolicy)
	}
}

func TestIsNoSuchBucket(t *testing.T) {
	t.Parallel()

	if !isNoSuchBucket(errors.New("api error NoSuchBucket: bucket does not exist")) {
		t.Fatalf("expected NoSuchBucket string to match")
	}
	if isNoSuchBucket(errors.New("api error AccessDenied")) {
		t.Fatalf("expected AccessDenied not to match")
	}
}
