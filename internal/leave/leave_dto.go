package leave

type ApplyLeaveRequest struct {
	LeaveType    string `json:"leave_type" binding:"required,oneof=ANNUAL SICK CASUAL"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	HalfDayStart bool   `json:"half_day_start"`
	HalfDayEnd   bool   `json:"half_day_end"`
	Reason       string `json:"reason" binding:"required"`
}

type DecideLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Comment  string `json:"comment"`
}

type LeaveResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Email          string  `json:"email"`
	ManagerEmail   string  `json:"manager_email"`
	LeaveType      string  `json:"leave_type"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	HalfDayStart   bool    `json:"half_day_start"`
	HalfDayEnd     bool    `json:"half_day_end"`
	TotalDays      string  `json:"total_days"`
	Reason         string  `json:"reason"`
	Status         string  `json:"status"`
	ManagerComment *string `json:"manager_comment,omitempty"`
}

func mapToResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:             l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		Email:          l.Email,
		ManagerEmail:   l.ManagerEmail,
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format("2006-01-02"),
		EndDate:        l.EndDate.Format("2006-01-02"),
		HalfDayStart:   l.HalfDayStart,
		HalfDayEnd:     l.HalfDayEnd,
		TotalDays:      l.TotalDays.String(),
		Reason:         l.Reason,
		Status:         l.Status,
		ManagerComment: l.ManagerComment,
	}
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
