package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOrderNumber(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		courier string
		want    string
	}{
		{
			name:  "tracking literal beats order id",
			lines: []string{"Order ID: OD1234567", "FMPC1234567890"},
			want:  "FMPC1234567890",
		},
		{
			name:    "invoice number is not a tracking literal",
			lines:   []string{"Delhivery", "Invoice No: INVC202400001", "AWB: 15123456789012"},
			courier: CourierDelhivery,
			want:    "15123456789012",
		},
		{
			name:  "gst invoice prefix ignored",
			lines: []string{"GSTN123456789", "Order ID: AB12345"},
			want:  "AB12345",
		},
		{
			name:    "marketplace awb",
			lines:   []string{"Valmo", "AWB 987654321012"},
			courier: CourierValmo,
			want:    "987654321012",
		},
		{
			name:    "numeric awb with known prefix",
			lines:   []string{"Phone 919876543210", "28123456789012"},
			courier: CourierDelhivery,
			want:    "28123456789012",
		},
		{
			name:  "generic tracking id",
			lines: []string{"Tracking ID: XB123456789"},
			want:  "XB123456789",
		},
		{
			name:  "long number skips mobile",
			lines: []string{"Mob 919876543210", "Ref 9876543210123"},
			want:  "9876543210123",
		},
		{
			name:  "order label rejects column words",
			lines: []string{"Order No: INVOICE", "Order ID: AB12345"},
			want:  "AB12345",
		},
		{
			name:  "ref invoice",
			lines: []string{"Ref/Invoice: SFX998"},
			want:  "SFX998",
		},
		{
			name:  "nothing",
			lines: []string{"Mob 919876543210", "Ship To: Rahul"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOrderNumber(NewDocument(tt.lines), tt.courier))
		})
	}
}

func TestIsMobileNumber(t *testing.T) {
	assert.True(t, isMobileNumber("919876543210"))
	assert.True(t, isMobileNumber("00919876543210"))
	assert.False(t, isMobileNumber("915876543210"))
	assert.False(t, isMobileNumber("28123456789012"))
}
