package data

import (
	"testing"
	"time"
)

func TestLoanCurrentStatus(t *testing.T) {
	now := time.Now()
	returned := now.Add(-time.Hour)

	tests := []struct {
		name string
		loan Loan
		want string
	}{
		{
			name: "issued before due date",
			loan: Loan{DueDate: now.Add(24 * time.Hour), Status: LoanStatusIssued},
			want: LoanStatusIssued,
		},
		{
			name: "overdue after due date",
			loan: Loan{DueDate: now.Add(-24 * time.Hour), Status: LoanStatusIssued},
			want: LoanStatusOverdue,
		},
		{
			name: "returned is terminal",
			loan: Loan{DueDate: now.Add(-24 * time.Hour), ReturnDate: &returned, Status: LoanStatusReturned},
			want: LoanStatusReturned,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loan.CurrentStatus(now); got != tt.want {
				t.Errorf("CurrentStatus() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestLoanOpen(t *testing.T) {
	loan := Loan{Status: LoanStatusIssued}
	if !loan.Open() {
		t.Error("expected loan without return date to be open")
	}
	rd := time.Now()
	loan.ReturnDate = &rd
	if loan.Open() {
		t.Error("expected loan with return date to be closed")
	}
}
