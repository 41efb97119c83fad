// File: internal/cfn/intrinsics.go
// Brief: JSON marshaling for the CloudFormation intrinsics the stack uses.

package cfn

import "encoding/json"

// Ref marshals to {"Ref": "<logical ID>"}. Pseudo parameters such as
// AWS::StackName are plain Ref values too.
type Ref string

// MarshalJSON implements json.Marshaler.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": string(r)})
}

// Sub marshals to {"Fn::Sub": "<string>"}.
type Sub string

// MarshalJSON implements json.Marshaler.
func (s Sub) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Fn::Sub": string(s)})
}

type getAtt struct {
	logicalID string
	attribute string
}

// GetAtt marshals to {"Fn::GetAtt": ["<logical ID>", "<attribute>"]}.
func GetAtt(logicalID, attribute string) any {
	return getAtt{logicalID: logicalID, attribute: attribute}
}

// MarshalJSON implements json.Marshaler.
func (g getAtt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{"Fn::GetAtt": {g.logicalID, g.attribute}})
}
