package dto

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ── scanned codes ──

// ScannedCodeRequest POST /api/scanned-codes
type ScannedCodeRequest struct {
	Code      string   `json:"code"       binding:"required,max=255"`
	Type      string   `json:"type"       binding:"required,oneof=barcode qrcode"`
	Source    string   `json:"source"     binding:"required,oneof=camera usb_scanner"`
	ProjectID *string  `json:"project_id" binding:"omitempty,uuid"`
	Latitude  *float64 `json:"latitude"   binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude"  binding:"omitempty,longitude"`
	Status    string   `json:"status"     binding:"max=50"`
}

// ScannedCodeResponse stored scan.
type ScannedCodeResponse struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Type        string   `json:"type"`
	Source      string   `json:"source"`
	ProjectID   *string  `json:"project_id,omitempty"`
	ProjectName string   `json:"project_name,omitempty"`
	UserID      string   `json:"user_id"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Status      string   `json:"status"`
	Timestamp   string   `json:"timestamp"`
}

// ListByProjectQuery optional project filter.
type ListByProjectQuery struct {
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
}

// ── battery flows ──

// FlowRequest POST /api/panasonic-flow
type FlowRequest struct {
	SessionID    *string    `json:"session_id"   binding:"omitempty,max=100"`
	BoxCode      string     `json:"boxcode"      binding:"required,max=255"`
	BoxCode2     *string    `json:"boxcode2"     binding:"omitempty,max=255"`
	BatteryCode  string     `json:"batterycode"  binding:"required,max=255"`
	BatteryCode2 *string    `json:"batterycode2" binding:"omitempty,max=255"`
	BatteryCode3 *string    `json:"batterycode3" binding:"omitempty,max=255"`
	BatteryCode4 *string    `json:"batterycode4" binding:"omitempty,max=255"`
	ProjectID    string     `json:"project_id"   binding:"required,uuid"`
	Latitude     *float64   `json:"latitude"     binding:"required,latitude"`
	Longitude    *float64   `json:"longitude"    binding:"required,longitude"`
	Lat2         *float64   `json:"lat2"         binding:"omitempty,latitude"`
	Lon2         *float64   `json:"lon2"         binding:"omitempty,longitude"`
	Lat3         *float64   `json:"lat3"         binding:"omitempty,latitude"`
	Lon3         *float64   `json:"lon3"         binding:"omitempty,longitude"`
	Lat4         *float64   `json:"lat4"         binding:"omitempty,latitude"`
	Lon4         *float64   `json:"lon4"         binding:"omitempty,longitude"`
	Status       string     `json:"status"       binding:"max=50"`
	Categorie    string     `json:"categorie"    binding:"max=100"`
	Timestamp    *time.Time `json:"timestamp"`
	BoxTimestamp *time.Time `json:"boxtimestamp"`
}

// BatteryCategoryRequest PUT /api/panasonic-flow/categories
type BatteryCategoryRequest struct {
	BatteryCode1 string `json:"batteryCode1" binding:"required,max=255"`
	Category1    string `json:"category1"    binding:"required,max=10"`
	BatteryCode2 string `json:"batteryCode2" binding:"max=255"`
	Category2    string `json:"category2"    binding:"required,max=10"`
	ProjectID    string `json:"projectId"    binding:"required,uuid"`
	SessionID    string `json:"sessionId"    binding:"max=100"`
}

// BatteryCategoryResponse categorized flow.
type BatteryCategoryResponse struct {
	Message   string `json:"message"`
	FlowID    string `json:"flow_id"`
	Categorie string `json:"categorie"`
}

// ── checkpoints ──

// ExtraScan one optional named station scan carried in the wide payload.
type ExtraScan struct {
	Code      string
	Latitude  *float64
	Longitude *float64
}

// CheckpointRequest POST /api/panasonic-checkpoints. Besides the primary
// scan it accepts checkpoint_<station>, lat_<station> and lon_<station>
// keys, collected into Extras by station name.
type CheckpointRequest struct {
	SessionID        string   `json:"session_id"        binding:"required,max=100"`
	CheckpointType   string   `json:"checkpoint_type"   binding:"required,max=50"`
	CheckpointNumber int      `json:"checkpoint_number" binding:"min=0"`
	ScannedCode      string   `json:"scanned_code"      binding:"required,max=255"`
	ScanOrder        *int     `json:"scan_order"`
	Latitude         *float64 `json:"latitude"          binding:"required,latitude"`
	Longitude        *float64 `json:"longitude"         binding:"required,longitude"`
	Accuracy         *float64 `json:"accuracy"          binding:"omitempty,min=0"`
	ProjectID        string   `json:"project_id"        binding:"required,uuid"`
	Status           string   `json:"status"            binding:"max=50"`
	Categorie        *string  `json:"categorie"         binding:"omitempty,max=100"`
	Phase            string   `json:"phase"             binding:"required,max=20"`

	Extras map[string]ExtraScan `json:"-"`
}

// UnmarshalJSON decodes the primary fields and gathers the station extras.
func (r *CheckpointRequest) UnmarshalJSON(data []byte) error {
	type plain CheckpointRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	extras := make(map[string]ExtraScan)
	for key, val := range raw {
		if string(val) == "null" {
			continue
		}
		switch {
		case key == "checkpoint_type" || key == "checkpoint_number":
		case strings.HasPrefix(key, "checkpoint_"):
			var code string
			if err := json.Unmarshal(val, &code); err != nil {
				return err
			}
			if code == "" {
				continue
			}
			name := strings.TrimPrefix(key, "checkpoint_")
			e := extras[name]
			e.Code = code
			extras[name] = e
		case strings.HasPrefix(key, "lat_"), strings.HasPrefix(key, "lon_"):
			var f float64
			if err := json.Unmarshal(val, &f); err != nil {
				return err
			}
			name := key[4:]
			e := extras[name]
			if strings.HasPrefix(key, "lat_") {
				e.Latitude = &f
			} else {
				e.Longitude = &f
			}
			extras[name] = e
		}
	}
	// coordinates without a code carry no scan
	for name, e := range extras {
		if e.Code == "" {
			delete(extras, name)
		}
	}

	*r = CheckpointRequest(p)
	if len(extras) > 0 {
		r.Extras = extras
	}
	return nil
}

// CheckpointEventResponse one stored station scan.
type CheckpointEventResponse struct {
	ID               string   `json:"id"`
	SessionID        string   `json:"session_id"`
	CheckpointName   string   `json:"checkpoint_name"`
	CheckpointNumber int      `json:"checkpoint_number"`
	Label            string   `json:"label,omitempty"`
	ScannedCode      string   `json:"scanned_code"`
	ScanOrder        *int     `json:"scan_order,omitempty"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Accuracy         *float64 `json:"accuracy,omitempty"`
	Phase            string   `json:"phase"`
	Status           string   `json:"status"`
	Categorie        *string  `json:"categorie,omitempty"`
	UserID           string   `json:"user_id"`
	UserName         string   `json:"user_name,omitempty"`
	ProjectID        string   `json:"project_id"`
	ProjectName      string   `json:"project_name,omitempty"`
	Timestamp        string   `json:"timestamp"`
}

// CreateCheckpointResponse stored events of one submission.
type CreateCheckpointResponse struct {
	Message   string                    `json:"message"`
	SessionID string                    `json:"session_id"`
	Events    []CheckpointEventResponse `json:"events"`
}

// SessionResponse events of one session with completeness.
type SessionResponse struct {
	SessionID string                    `json:"session_id"`
	Events    []CheckpointEventResponse `json:"events"`
	Missing   []string                  `json:"missing"`
	Complete  bool                      `json:"complete"`
}

// ── quality checks ──

// QualityAnswerKeys fixed questionnaire slots.
var QualityAnswerKeys = func() []string {
	keys := make([]string, 0, 25)
	for i := 1; i <= 21; i++ {
		keys = append(keys, "respuesta"+strconv.Itoa(i))
	}
	return append(keys, "escaneo2", "escaneo9", "escaneo15", "escaneo17")
}()

var answerKeySet = func() map[string]bool {
	m := make(map[string]bool, len(QualityAnswerKeys))
	for _, k := range QualityAnswerKeys {
		m[k] = true
	}
	return m
}()

// IsScanAnswer reports whether the slot holds a scanned code.
func IsScanAnswer(key string) bool { return strings.HasPrefix(key, "escaneo") }

// QualityCheckRequest POST /api/quality-check. Answer slots
// (respuesta1..21, escaneo2/9/15/17) are collected into Answers; only keys
// present with a non-null value are included.
type QualityCheckRequest struct {
	SessionID        string   `json:"session_id"        binding:"required,max=100"`
	ProjectID        *string  `json:"project_id"        binding:"omitempty,uuid"`
	Phase            *string  `json:"phase"             binding:"omitempty,qc_phase"`
	Battery1Code     *string  `json:"battery1_code"     binding:"omitempty,max=255"`
	Battery1Category *string  `json:"battery1_category" binding:"omitempty,max=10"`
	Battery2Code     *string  `json:"battery2_code"     binding:"omitempty,max=255"`
	Battery2Category *string  `json:"battery2_category" binding:"omitempty,max=10"`
	AvgBoxTime       *float64 `json:"avg_box_time"      binding:"omitempty,min=0"`

	Answers map[string]string `json:"-"`
}

// UnmarshalJSON decodes the fixed fields and gathers the answer slots.
func (r *QualityCheckRequest) UnmarshalJSON(data []byte) error {
	type plain QualityCheckRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	answers := make(map[string]string)
	for key, val := range raw {
		if !answerKeySet[key] || string(val) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return err
		}
		answers[key] = s
	}
	*r = QualityCheckRequest(p)
	if len(answers) > 0 {
		r.Answers = answers
	}
	return nil
}

// QualityCheckResponse stored questionnaire.
type QualityCheckResponse struct {
	ID               string                 `json:"id"`
	SessionID        string                 `json:"session_id"`
	UserID           string                 `json:"user_id"`
	UserName         string                 `json:"user_name,omitempty"`
	ProjectID        string                 `json:"project_id"`
	ProjectName      string                 `json:"project_name,omitempty"`
	Phase            string                 `json:"phase"`
	Answers          map[string]interface{} `json:"answers"`
	Battery1Code     *string                `json:"battery1_code,omitempty"`
	Battery1Category *string                `json:"battery1_category,omitempty"`
	Battery2Code     *string                `json:"battery2_code,omitempty"`
	Battery2Category *string                `json:"battery2_category,omitempty"`
	AvgBoxTime       *float64               `json:"avg_box_time,omitempty"`
	Timestamp        string                 `json:"timestamp"`
	UpdatedAt        string                 `json:"updated_at"`
}

// QualityCheckResult upsert outcome: created or updated, with the fields written.
type QualityCheckResult struct {
	Outcome string               `json:"outcome"`
	Fields  []string             `json:"fields"`
	Check   QualityCheckResponse `json:"check"`
}
