package iac

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ztguard/ztguard/pkg/lint"
)

func writeTF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanFilePublicS3Bucket(t *testing.T) {
	dir := t.TempDir()
	path := writeTF(t, dir, "bucket.tf", `
resource "aws_s3_bucket" "bad_public" {
  bucket = "bad-public"
  acl    = "public-read"
}

resource "aws_s3_bucket" "good" {
  bucket = "good"
  acl    = "private"
}
`)

	findings, err := NewScanner(nil).ScanFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "public-s3-acl", findings[0].Code)
	assert.Equal(t, "bad_public", findings[0].ResourceName)
	assert.Equal(t, ResourceTypeS3Bucket, findings[0].ResourceType)
	assert.Equal(t, path, findings[0].ResourceARN)
	assert.Equal(t, -1, findings[0].Statement)
}

func TestScanFileOpenSecurityGroup(t *testing.T) {
	dir := t.TempDir()
	path := writeTF(t, dir, "sg.tf", `
resource "aws_security_group" "bad_open" {
  name = "bad-open"

  ingress {
    from_port   = 0
    to_port     = 65535
    cidr_blocks = ["0.0.0.0/0"]
  }
}

resource "aws_security_group" "good" {
  name = "good"

  ingress {
    from_port   = 22
    to_port     = 22
    cidr_blocks = ["10.0.0.0/24"]
  }
}
`)

	findings, err := NewScanner(nil).ScanFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "open-security-group", findings[0].Code)
	assert.Equal(t, "bad_open", findings[0].ResourceName)
}

func TestScanFileIAMPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeTF(t, dir, "iam.tf", `
resource "aws_iam_policy" "bad_wild" {
  name   = "bad-wild"
  policy = <<EOF
{
  "Version": "2012-10-17",
  "Statement": [{"Effect": "Allow", "Action": "*", "Resource": "*"}]
}
EOF
}
`)

	findings, err := NewScanner(nil).ScanFile(path)
	require.NoError(t, err)

	var codes []string
	for _, f := range findings {
		codes = append(codes, f.Code)
		assert.Equal(t, ResourceTypeIAMPolicy, f.ResourceType)
		assert.Equal(t, "bad_wild", f.ResourceName)
	}
	assert.Contains(t, codes, "full-admin")
	assert.Contains(t, codes, "wildcard-resource")
}

func TestScanFileMalformedIAMPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeTF(t, dir, "iam.tf", `
resource "aws_iam_policy" "broken" {
  name   = "broken"
  policy = "not json"
}
`)

	findings, err := NewScanner(nil).ScanFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "malformed-policy-document", findings[0].Code)
	assert.Equal(t, lint.SeverityMedium, findings[0].Severity)
}

func TestScanDirCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	writeTF(t, dir, "ok.tf", `
resource "aws_s3_bucket" "bad_public_rw" {
  acl = "public-read-write"
}
`)
	writeTF(t, dir, "broken.tf", `resource "aws_s3_bucket" {`)
	writeTF(t, dir, "ignored.txt", "not terraform")

	findings, errs := NewScanner(nil).ScanDir(dir)
	require.Len(t, findings, 1)
	assert.Equal(t, "public-s3-acl", findings[0].Code)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken.tf")
}
