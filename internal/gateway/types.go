package gateway

import (
	"encoding/json"
	"errors"
)

// RemoteInstance is the part of a gateway instance record the console mirrors.
type RemoteInstance struct {
	Name   string
	Owner  string
	Status string
}

// flexString decodes JSON strings and tolerates any other JSON value as empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*f = ""
		return nil
	}
	*f = flexString(s)
	return nil
}

// instanceFields covers both the legacy (instanceName/owner/status) and the newer
// (name/ownerJid/connectionStatus) gateway field names.
type instanceFields struct {
	InstanceName     flexString `json:"instanceName"`
	Name             flexString `json:"name"`
	Owner            flexString `json:"owner"`
	OwnerJID         flexString `json:"ownerJid"`
	Status           flexString `json:"status"`
	ConnectionStatus flexString `json:"connectionStatus"`
}

func (f instanceFields) remote() RemoteInstance {
	r := RemoteInstance{
		Name:   string(f.InstanceName),
		Owner:  string(f.Owner),
		Status: string(f.Status),
	}
	if r.Name == "" {
		r.Name = string(f.Name)
	}
	if r.Owner == "" {
		r.Owner = string(f.OwnerJID)
	}
	if f.ConnectionStatus != "" {
		r.Status = string(f.ConnectionStatus)
	}
	return r
}

type instanceEnvelope struct {
	Instance *instanceFields `json:"instance"`
	instanceFields
}

// ParseInstance decodes a single instance record, nested under "instance" or flat.
func ParseInstance(data json.RawMessage) (RemoteInstance, bool) {
	var env instanceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return RemoteInstance{}, false
	}
	r := env.instanceFields.remote()
	if env.Instance != nil {
		r = env.Instance.remote()
	}
	return r, r.Name != ""
}

// ParseInstances decodes a fetchInstances reply. The reply must be a JSON array; entries without a name are skipped.
func ParseInstances(data json.RawMessage) ([]RemoteInstance, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.New("fetchInstances reply is not an array")
	}
	instances := make([]RemoteInstance, 0, len(items))
	for _, item := range items {
		if r, ok := ParseInstance(item); ok {
			instances = append(instances, r)
		}
	}
	return instances, nil
}

// FindInstance returns the remote instance with exactly the given name.
func FindInstance(instances []RemoteInstance, name string) (RemoteInstance, bool) {
	for _, r := range instances {
		if r.Name == name {
			return r, true
		}
	}
	return RemoteInstance{}, false
}

// QRCode extracts a pairing QR payload from "base64", a string "qrcode", or "qrcode.base64".
func QRCode(data json.RawMessage) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	var payload struct {
		Base64 flexString      `json:"base64"`
		QRCode json.RawMessage `json:"qrcode"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", false
	}
	if payload.Base64 != "" {
		return string(payload.Base64), true
	}
	if len(payload.QRCode) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(payload.QRCode, &s); err == nil {
		return s, s != ""
	}
	var nested struct {
		Base64 flexString `json:"base64"`
	}
	if err := json.Unmarshal(payload.QRCode, &nested); err == nil && nested.Base64 != "" {
		return string(nested.Base64), true
	}
	return "", false
}
