package xmldoc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
)

func TestParseString_Tree(t *testing.T) {
	root, err := ParseString(`<?xml version="1.0" encoding="UTF-8"?>
<FATURALAR>
  <BASLIK no="1">
    <LNGBELGEKOD> F-1 </LNGBELGEKOD>
    <DETAY><DBLMIKTAR>5.000</DBLMIKTAR></DETAY>
    <DETAY><DBLMIKTAR>-2</DBLMIKTAR></DETAY>
  </BASLIK>
</FATURALAR>`)
	require.NoError(t, err)

	assert.Equal(t, "FATURALAR", root.Name)
	basliks := root.All("BASLIK")
	require.Len(t, basliks, 1)

	b := basliks[0]
	assert.Equal(t, "F-1", b.String("LNGBELGEKOD"))
	no, ok := b.Attr("no")
	assert.True(t, ok)
	assert.Equal(t, "1", no)

	details := b.All("DETAY")
	require.Len(t, details, 2)
	assert.Equal(t, 5.0, details[0].Float("DBLMIKTAR", 0))
	assert.Equal(t, -2.0, details[1].Float("DBLMIKTAR", 0))
	assert.Equal(t, "5.000", details[0].String("DBLMIKTAR"))
}

func TestParseString_Malformed(t *testing.T) {
	cases := map[string]string{
		"unclosed":     `<FATURALAR><BASLIK></FATURALAR>`,
		"empty":        ``,
		"two roots":    `<A/><B/>`,
		"text outside": `<A/>garbage`,
		"not xml":      `{"FATURALAR": []}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseString(input)
			require.Error(t, err)
			var parseErr *domain.ParseError
			assert.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)
		})
	}
}

func TestParse_Windows1254(t *testing.T) {
	encoded, err := charmap.Windows1254.NewEncoder().String("<?xml version=\"1.0\" encoding=\"windows-1254\"?><T><TXTBANKA>Garanti Bankası İşlem</TXTBANKA></T>")
	require.NoError(t, err)

	root, err := Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)
	assert.Equal(t, "Garanti Bankası İşlem", root.String("TXTBANKA"))
}

func TestParseString_ByteOrderMark(t *testing.T) {
	root, err := ParseString("\ufeff<?xml version=\"1.0\" encoding=\"UTF-8\"?><FATURALAR><BASLIK><LNGBELGEKOD>F-1</LNGBELGEKOD></BASLIK></FATURALAR>")
	require.NoError(t, err)
	assert.Equal(t, "FATURALAR", root.Name)
	assert.Equal(t, "F-1", root.Child("BASLIK").String("LNGBELGEKOD"))

	root, err = ParseBytes(append([]byte{0xEF, 0xBB, 0xBF}, []byte("<TAHSILATLAR/>")...))
	require.NoError(t, err)
	assert.Equal(t, "TAHSILATLAR", root.Name)
}

func TestParse_UTF16WithByteOrderMark(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("<?xml version=\"1.0\" encoding=\"UTF-16\"?><T><TXTBANKA>İş Bankası</TXTBANKA></T>")
	require.NoError(t, err)

	root, err := ParseString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "İş Bankası", root.String("TXTBANKA"))
}

func TestParse_UnknownCharset(t *testing.T) {
	_, err := ParseString(`<?xml version="1.0" encoding="x-unknown"?><T/>`)
	require.Error(t, err)
	var parseErr *domain.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestRepeatable(t *testing.T) {
	a := &Node{Name: "A"}
	b := &Node{Name: "B"}

	assert.Empty(t, Repeatable(nil))
	assert.NotNil(t, Repeatable(nil))
	assert.Equal(t, []*Node{a}, Repeatable(a))
	assert.Equal(t, []*Node{a, b}, Repeatable([]*Node{a, b}))
	assert.Empty(t, Repeatable((*Node)(nil)))
}

func TestNode_AbsentChildren(t *testing.T) {
	root, err := ParseString(`<TAHSILATLAR/>`)
	require.NoError(t, err)

	assert.NotNil(t, root.All("TAHSILAT"))
	assert.Empty(t, root.All("TAHSILAT"))
	_, ok := root.Value("TAHSILAT")
	assert.False(t, ok)
	assert.Equal(t, 7, root.Int("BYTTIP", 7))
	assert.Equal(t, 1.5, root.Float("DBLTUTAR", 1.5))

	var nilNode *Node
	assert.Nil(t, nilNode.Child("X"))
	assert.Empty(t, nilNode.All("X"))
}

func TestNode_Int(t *testing.T) {
	root, err := ParseString(`<R><A>8</A><B>2.9</B><C>x</C><D></D></R>`)
	require.NoError(t, err)

	assert.Equal(t, 8, root.Int("A", 0))
	assert.Equal(t, 2, root.Int("B", 0))
	assert.Equal(t, 0, root.Int("C", 0))
	assert.Equal(t, 5, root.Int("D", 5))
}
