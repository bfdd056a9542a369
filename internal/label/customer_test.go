package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCustomer(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "inline value truncated at comma",
			lines: []string{"Ship To: rahul sharma, House 12, MG Road"},
			want:  "Rahul Sharma",
		},
		{
			name:  "bare marker",
			lines: []string{"Deliver To:", "PRIYA VERMA", "Flat 4, Sector 21"},
			want:  "Priya Verma",
		},
		{
			name:  "invalid inline falls through to next line",
			lines: []string{"Ship To: 9876543210", "Amit Kumar House No 5"},
			want:  "Amit Kumar",
		},
		{
			name:  "customer address header",
			lines: []string{"Customer Address", "Neha Singh", "Near City Mall"},
			want:  "Neha Singh",
		},
		{
			name:  "consignee",
			lines: []string{"Consignee: Arjun Mehta"},
			want:  "Arjun Mehta",
		},
		{
			name:  "plain to marker",
			lines: []string{"To:", "Sunita Rao"},
			want:  "Sunita Rao",
		},
		{
			name:  "non name keyword rejected",
			lines: []string{"Ship To: Customer Address", "Mobile 9876543210"},
			want:  "",
		},
		{
			name:  "total is not a marker",
			lines: []string{"Total 499", "Rahul Sharma"},
			want:  "",
		},
		{
			name:  "no marker",
			lines: []string{"Rahul Sharma"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCustomer(NewDocument(tt.lines)))
		})
	}
}

func TestTruncateAtAddress(t *testing.T) {
	assert.Equal(t, "Amit Kumar", truncateAtAddress("Amit Kumar House No 5"))
	assert.Equal(t, "Roadrunner Singh", truncateAtAddress("Roadrunner Singh"))
}
