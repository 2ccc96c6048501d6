package handler

import (
	"profiles/internal/identitycheck"
)

// IdentityCheckResponse lists elements whose fingerprint did not match.
type IdentityCheckResponse struct {
	Elements []IdentityCheckMismatch `json:"elements"`
}

// IdentityCheckMismatch carries the current identity key for a mismatching
// element. Identity keys are base64 in JSON.
type IdentityCheckMismatch struct {
	ACI         string `json:"aci,omitempty"`
	PNI         string `json:"pni,omitempty"`
	IdentityKey []byte `json:"identityKey"`
}

func toIdentityCheckResponse(mismatches []identitycheck.Mismatch) IdentityCheckResponse {
	resp := IdentityCheckResponse{Elements: make([]IdentityCheckMismatch, 0, len(mismatches))}
	for _, m := range mismatches {
		out := IdentityCheckMismatch{IdentityKey: m.IdentityKey}
		if m.ACI != nil {
			out.ACI = m.ACI.String()
		}
		if m.PNI != nil {
			out.PNI = m.PNI.String()
		}
		resp.Elements = append(resp.Elements, out)
	}
	return resp
}
