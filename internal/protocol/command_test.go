package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{"HEAD\n", Head()},
		{"head", Head()},
		{"  HeAd  extra\r\n", Head()},
		{"LIST\n", List()},
		{"list synthesizer\n", ListCategory("synthesizer")},
		{"LIST gaming audio\n", ListCategory("gaming")},
		{"GET 2\n", Get("2")},
		{"get 2 3\n", Get("2")},
		{"SEARCH fm\n", Search("fm")},
		{"search FM synth\n", Search("FM")},
		{"CATEGORIES\n", Categories()},
		{"categories please\n", Categories()},
		{"GET\n", Invalid("GET\n")},
		{"SEARCH   \n", Invalid("SEARCH   \n")},
		{"BUY 1\n", Invalid("BUY 1\n")},
		{"", Invalid("")},
		{" \t\n", Invalid(" \t\n")},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			require.Equal(t, tc.want, Parse(tc.line))
		})
	}
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "HEAD", KindHead.String())
	require.Equal(t, "LIST", KindList.String())
	require.Equal(t, "GET", KindGet.String())
	require.Equal(t, "SEARCH", KindSearch.String())
	require.Equal(t, "CATEGORIES", KindCategories.String())
	require.Equal(t, "INVALID", KindInvalid.String())
	require.Equal(t, "INVALID", Kind(99).String())
}
