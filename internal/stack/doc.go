// Package stack defines the Jenkins controller stack: a pure function from a
// small set of inputs (account, region, domain, sizing) to a CloudFormation
// resource graph. Synthesis performs no I/O and reads no clock; identical
// inputs always produce byte-identical templates.
package stack
