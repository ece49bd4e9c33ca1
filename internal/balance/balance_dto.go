package balance

type BalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Annual     string `json:"annual"`
	Sick       string `json:"sick"`
	Casual     string `json:"casual"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID: b.EmployeeID.String(),
		Annual:     b.Annual.String(),
		Sick:       b.Sick.String(),
		Casual:     b.Casual.String(),
	}
}
