package cfn

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestAddResourceRejectsDuplicates(t *testing.T) {
	tmpl := NewTemplate("test")
	if err := tmpl.AddResource("Cluster", &Resource{Type: "AWS::ECS::Cluster"}); err != nil {
		t.Fatalf("AddResource: %v", err)
	}
	err := tmpl.AddResource("Cluster", &Resource{Type: "AWS::ECS::Cluster"})
	if err == nil {
		t.Fatalf("expected duplicate logical ID error")
	}
	if !strings.Contains(err.Error(), "Cluster") {
		t.Fatalf("error should name the logical ID, got: %v", err)
	}
}

func TestAddResourceRejectsNil(t *testing.T) {
	tmpl := NewTemplate("test")
	if err := tmpl.AddResource("Thing", nil); err == nil {
		t.Fatalf("expected nil resource error")
	}
	if err := tmpl.AddResource("", &Resource{Type: "AWS::ECS::Cluster"}); err == nil {
		t.Fatalf("expected empty logical ID error")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	build := func() *Template {
		tmpl := NewTemplate("determinism probe")
		_ = tmpl.AddResource("Vpc", &Resource{
			Type: "AWS::EC2::VPC",
			Properties: map[string]any{
				"CidrBlock":          "10.0.0.0/16",
				"EnableDnsSupport":   true,
				"EnableDnsHostnames": true,
			},
		})
		_ = tmpl.AddResource("Cluster", &Resource{
			Type:       "AWS::ECS::Cluster",
			Properties: map[string]any{"ClusterName": Sub("${AWS::StackName}-cluster")},
		})
		_ = tmpl.AddOutput("VpcId", Output{Value: Ref("Vpc")})
		return tmpl
	}
	first, err := build().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := build().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("identical templates encoded differently:\n%s\n---\n%s", first, second)
	}
	if !bytes.HasSuffix(first, []byte("\n")) {
		t.Fatalf("encoded template should end with a newline")
	}
}

func TestEncodeDoesNotMutate(t *testing.T) {
	tmpl := NewTemplate("probe")
	_ = tmpl.AddResource("Fs", &Resource{Type: "AWS::EFS::FileSystem", DeletionPolicy: "Retain"})
	before, _ := tmpl.Encode()
	after, _ := tmpl.Encode()
	if !bytes.Equal(before, after) {
		t.Fatalf("Encode mutated the template")
	}
	if len(tmpl.Resources) != 1 {
		t.Fatalf("resource count changed: %d", len(tmpl.Resources))
	}
}

func TestIntrinsicMarshaling(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"ref", Ref("Vpc"), `{"Ref":"Vpc"}`},
		{"pseudo ref", Ref("AWS::StackName"), `{"Ref":"AWS::StackName"}`},
		{"sub", Sub("${AWS::StackName}-task"), `{"Fn::Sub":"${AWS::StackName}-task"}`},
		{"getatt", GetAtt("LoadBalancer", "DNSName"), `{"Fn::GetAtt":["LoadBalancer","DNSName"]}`},
	}
	for _, tc := range cases {
		got, err := json.Marshal(tc.in)
		if err != nil {
			t.Fatalf("%s: marshal: %v", tc.name, err)
		}
		if string(got) != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestEncodeKeepsURLCharactersLiteral(t *testing.T) {
	tmpl := NewTemplate("probe")
	_ = tmpl.AddOutput("JenkinsURL", Output{Value: Sub("http://${LoadBalancer.DNSName}")})
	raw, err := tmpl.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(raw), `&`) || !strings.Contains(string(raw), "http://") {
		t.Fatalf("HTML escaping should be disabled, got:\n%s", raw)
	}
}
