// Package iac scans Terraform configuration files for insecure resource
// patterns: public S3 bucket ACLs, security groups open to the world, and
// IAM policies with risky statements. IAM policy attributes are decoded and
// run through the full statement validator rather than pattern-matched.
package iac
