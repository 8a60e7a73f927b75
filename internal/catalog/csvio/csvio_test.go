package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport_Seed(t *testing.T) {
	seed := domain.Seed()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, seed))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,name,number,description,images", lines[0])

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestExport_EmptyCatalogWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil))
	assert.Equal(t, "id,name,number,description,images\n", buf.String())

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImport_WithoutIDColumn(t *testing.T) {
	in := "name,number,description,images\n" +
		"a,1,\"x, y\",http://one|front;http://two\n" +
		"b,2,,\n"

	got, err := Import(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.Product{
		Name:        "a",
		Number:      "1",
		Description: "x, y",
		Images: []domain.Image{
			{URL: "http://one", Name: "front"},
			{URL: "http://two", Name: ""},
		},
	}, got[0])
	assert.Equal(t, "", got[1].ID)
	assert.NotNil(t, got[1].Images)
	assert.Empty(t, got[1].Images)
}

func TestImport_EmptyInput(t *testing.T) {
	got, err := Import(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImport_Malformed(t *testing.T) {
	_, err := Import(strings.NewReader("name,number\n\"unterminated,1\n"))
	assert.Error(t, err)
}

func TestExportImport_SeparatorsInImages(t *testing.T) {
	in := []domain.Product{{
		ID:     "p1",
		Name:   "a;b|c",
		Number: "1",
		Images: []domain.Image{
			{URL: "https://x.test/img?a=1;b=2", Name: "front|back"},
			{URL: "https://x.test/two", Name: `say "hi", ok`},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, in))

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestImport_InvalidImagesColumn(t *testing.T) {
	in := "name,number,description,images\n" +
		"a,1,,\"[{\"\"url\"\":\"\n"

	_, err := Import(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestDecodeImages(t *testing.T) {
	for _, in := range []string{"", " ; ;", "[]", " [ ] "} {
		got, err := DecodeImages(in)
		require.NoError(t, err)
		assert.Equal(t, []domain.Image{}, got, in)
	}

	got, err := DecodeImages("u|a|b")
	require.NoError(t, err)
	assert.Equal(t, []domain.Image{{URL: "u", Name: "a|b"}}, got)

	got, err = DecodeImages(`[{"url":"u;v","name":"n|m"}]`)
	require.NoError(t, err)
	assert.Equal(t, []domain.Image{{URL: "u;v", Name: "n|m"}}, got)

	out, err := EncodeImages([]domain.Image{{URL: "u", Name: "n"}, {URL: "v"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"url":"u","name":"n"},{"url":"v","name":""}]`, out)

	out, err = EncodeImages(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
