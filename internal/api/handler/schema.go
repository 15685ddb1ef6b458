package handler

// Request/response types for the /api contract. The envelopes are preserved
// verbatim for the existing frontend: every success body carries ok:true and
// every failure ok:false with an optional message.

type authRequest struct {
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type employeePayload struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type authResponse struct {
	OK       bool             `json:"ok"`
	Employee *employeePayload `json:"employee,omitempty"`
}

type checkInRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

type checkInResponse struct {
	OK           bool   `json:"ok"`
	AttendanceID string `json:"attendance_id"`
	Time         string `json:"time"`
	Already      bool   `json:"already,omitempty"`
}

type checkOutRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

type checkOutResponse struct {
	OK            bool    `json:"ok"`
	Time          string  `json:"time"`
	ShiftHours    float64 `json:"shift_hours"`
	TotalHours30d float64 `json:"total_hours_30d"`
}

type dayPayload struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type summaryResponse struct {
	OK         bool         `json:"ok"`
	Days       []dayPayload `json:"days"`
	TotalHours float64      `json:"total_hours"`
}

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type adminLoginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

type createEmployeeRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"     validate:"required,phone"`
	Password string `json:"password"  validate:"required,min=4"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type employeeItem struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

type employeeListResponse struct {
	OK        bool           `json:"ok"`
	Employees []employeeItem `json:"employees"`
}
