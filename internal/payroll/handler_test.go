package payroll

import (
	"errors"
	"net/http"
	"testing"

	"gymdesk/internal/account"

	"github.com/stretchr/testify/require"
)

func TestStatusForMapsLedgerErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrSlipNotFound, http.StatusNotFound},
		{account.ErrAccountNotFound, http.StatusNotFound},
		{account.ErrInvalidAmount, http.StatusBadRequest},
		{account.ErrAccountInactive, http.StatusConflict},
		{ErrSlipAlreadyPaid, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, statusFor(tc.err), "error %v", tc.err)
	}
}
