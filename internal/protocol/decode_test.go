package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeLossy(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"valid ascii", "GET 1\n", "GET 1\n"},
		{"valid multibyte", "SEARCH café\n", "SEARCH café\n"},
		{"single bad byte", "GET \xff\n", "GET �\n"},
		{"bad run", "GET \xff\xfe\n", "GET ��\n"},
		{"bad between good", "a\xffb\xfe\xfdc", "a�b��c"},
		{"literal replacement char kept", "x�y", "x�y"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DecodeLossy([]byte(tc.raw)))
		})
	}
}
