package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/xmldoc"
)

const mixedFatura = `<FATURALAR>
  <BASLIK>
    <LNGBELGEKOD>F-100</LNGBELGEKOD>
    <TXTMUSTERIKOD>120.01.001</TXTMUSTERIKOD>
    <TRHFATURATARIHI>26-01-2025 14:30:00 +03:00</TRHFATURATARIHI>
    <BYTTUR>0</BYTTUR>
    <DETAY>
      <LNGKALEMSIRA>1</LNGKALEMSIRA>
      <TXTURUNKOD>URN-1</TXTURUNKOD>
      <DBLMIKTAR>5.000</DBLMIKTAR>
      <TXTURUNBIRIM>ADET</TXTURUNBIRIM>
      <DBLBIRIMFIYAT>10</DBLBIRIMFIYAT>
      <DBLKDVORANI>20</DBLKDVORANI>
    </DETAY>
    <DETAY>
      <LNGKALEMSIRA>2</LNGKALEMSIRA>
      <TXTURUNKOD>URN-2</TXTURUNKOD>
      <DBLMIKTAR>-2</DBLMIKTAR>
      <TXTURUNBIRIM>ADET</TXTURUNBIRIM>
      <DBLBIRIMFIYAT>12.5</DBLBIRIMFIYAT>
      <DBLKDVORANI>20</DBLKDVORANI>
    </DETAY>
  </BASLIK>
</FATURALAR>`

func mapFatura(t *testing.T, text string) *FaturaResult {
	t.Helper()
	root, err := xmldoc.ParseString(text)
	require.NoError(t, err)
	res, err := NewInvoiceMapper(DefaultProfile()).MapFatura(root)
	require.NoError(t, err)
	require.Len(t, res.Payloads, len(res.Summaries))
	return res
}

func TestMapFatura_MixedSignSplit(t *testing.T) {
	res := mapFatura(t, mixedFatura)
	require.Len(t, res.Summaries, 2)

	sales := res.Summaries[0]
	assert.Equal(t, 0, sales.Index)
	assert.Equal(t, domain.InvoiceTypeSales, sales.Type)
	assert.Equal(t, "F-100", sales.Ref)
	assert.Equal(t, "120.01.001", sales.Customer)
	assert.Equal(t, 1, sales.ItemCount)
	assert.Equal(t, 50.0, sales.NetAmount)
	assert.Equal(t, "URN-1", sales.Items[0].MaterialCode)

	ret := res.Summaries[1]
	assert.Equal(t, 1, ret.Index)
	assert.Equal(t, domain.InvoiceTypeAutoReturn, ret.Type)
	assert.Equal(t, 1, ret.ItemCount)
	assert.Equal(t, 25.0, ret.NetAmount)
	assert.Equal(t, 2.0, ret.Items[0].Quantity)
	assert.Equal(t, 2, ret.Items[0].LineNo)

	// payloads line up with summaries
	require.NotNil(t, res.Payloads[0].Sales)
	assert.Nil(t, res.Payloads[0].Return)
	assert.Equal(t, string(domain.InvoiceTypeSales), res.Payloads[0].Type)
	require.NotNil(t, res.Payloads[1].Return)
	assert.Equal(t, string(domain.InvoiceTypeAutoReturn), res.Payloads[1].Type)
	assert.Equal(t, "F-100", res.Payloads[0].Reference())
	assert.Equal(t, "F-100", res.Payloads[1].Reference())

	items := res.Payloads[0].Sales.Header.HeaderType.Item.ItemType
	require.Len(t, items, 1)
	assert.Equal(t, "10", items[0].ItemNo)
	assert.Equal(t, "5", items[0].RequestedQuantity)
	assert.Equal(t, "10", items[0].UnitPrice)

	returnItems := res.Payloads[1].Return.Header.HeaderType.Item.ItemType
	require.Len(t, returnItems, 1)
	assert.Equal(t, "10", returnItems[0].CustomerReturnItem)
	assert.Equal(t, "2", returnItems[0].RequestedQuantity)
	assert.Equal(t, ReturnReason, returnItems[0].ReturnReason)
}

func TestMapFatura_ReturnCode(t *testing.T) {
	res := mapFatura(t, `<FATURALAR>
  <BASLIK>
    <LNGBELGEKOD>R-1</LNGBELGEKOD>
    <BYTTUR>8</BYTTUR>
    <DETAY><DBLMIKTAR>-3</DBLMIKTAR><DBLBIRIMFIYAT>10.005</DBLBIRIMFIYAT></DETAY>
    <DETAY><DBLMIKTAR>1</DBLMIKTAR><DBLBIRIMFIYAT>4</DBLBIRIMFIYAT></DETAY>
  </BASLIK>
</FATURALAR>`)

	require.Len(t, res.Summaries, 1)
	s := res.Summaries[0]
	assert.Equal(t, domain.InvoiceTypeReturn, s.Type)
	assert.Equal(t, 2, s.ItemCount)
	for _, it := range s.Items {
		assert.GreaterOrEqual(t, it.Quantity, 0.0)
	}
	assert.Equal(t, 30.02, s.Items[0].LineTotal)
	assert.Equal(t, 34.02, s.NetAmount)

	p := res.Payloads[0].Return
	require.NotNil(t, p)
	assert.Equal(t, CustomerReturnType, p.Header.HeaderType.CustomerReturnType)
	items := p.Header.HeaderType.Item.ItemType
	require.Len(t, items, 2)
	assert.Equal(t, "10", items[0].CustomerReturnItem)
	assert.Equal(t, "20", items[1].CustomerReturnItem)
	assert.Equal(t, "3", items[0].RequestedQuantity)
	assert.Equal(t, "1", items[1].RequestedQuantity)
}

func TestMapFatura_ServiceAndSingleDetail(t *testing.T) {
	res := mapFatura(t, `<FATURALAR>
  <BASLIK>
    <LNGBELGEKOD>S-1</LNGBELGEKOD>
    <TRHBELGETARIHI>01-02-2025</TRHBELGETARIHI>
    <BYTTUR>5</BYTTUR>
    <DETAY><DBLMIKTAR>3</DBLMIKTAR><DBLBIRIMFIYAT>10.005</DBLBIRIMFIYAT></DETAY>
  </BASLIK>
</FATURALAR>`)

	require.Len(t, res.Summaries, 1)
	s := res.Summaries[0]
	assert.Equal(t, domain.InvoiceTypeService, s.Type)
	assert.Equal(t, "01-02-2025", s.Date)
	assert.Equal(t, 30.02, s.NetAmount)
	assert.Equal(t, 1, s.Items[0].LineNo)

	items := res.Payloads[0].Sales.Header.HeaderType.Item.ItemType
	require.Len(t, items, 1)
	assert.Equal(t, "10", items[0].ItemNo, "missing sequence counts as 1")
}

func TestMapFatura_UnknownCodeDefaultsToSales(t *testing.T) {
	res := mapFatura(t, `<FATURALAR><BASLIK><LNGBELGEKOD>X</LNGBELGEKOD><BYTTUR>3</BYTTUR>
<DETAY><DBLMIKTAR>1</DBLMIKTAR><DBLBIRIMFIYAT>1</DBLBIRIMFIYAT></DETAY></BASLIK></FATURALAR>`)
	require.Len(t, res.Summaries, 1)
	assert.Equal(t, domain.InvoiceTypeSales, res.Summaries[0].Type)
}

func TestMapFatura_OnlyNegativeLines(t *testing.T) {
	res := mapFatura(t, `<FATURALAR><BASLIK><LNGBELGEKOD>N</LNGBELGEKOD>
<DETAY><DBLMIKTAR>-1</DBLMIKTAR><DBLBIRIMFIYAT>7.5</DBLBIRIMFIYAT></DETAY>
<DETAY><DBLMIKTAR>-2</DBLMIKTAR><DBLBIRIMFIYAT>1</DBLBIRIMFIYAT></DETAY></BASLIK></FATURALAR>`)
	require.Len(t, res.Summaries, 1)
	assert.Equal(t, domain.InvoiceTypeAutoReturn, res.Summaries[0].Type)
	assert.Equal(t, 9.5, res.Summaries[0].NetAmount)
}

func TestMapFatura_EmptyAndWrongRoot(t *testing.T) {
	res := mapFatura(t, `<FATURALAR/>`)
	assert.Empty(t, res.Summaries)
	assert.NotNil(t, res.Summaries)

	root, err := xmldoc.ParseString(`<TAHSILATLAR/>`)
	require.NoError(t, err)
	_, err = NewInvoiceMapper(DefaultProfile()).MapFatura(root)
	var parseErr *domain.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestMapFatura_PartitionCoversAllLines(t *testing.T) {
	res := mapFatura(t, `<FATURALAR><BASLIK><LNGBELGEKOD>P</LNGBELGEKOD>
<DETAY><LNGKALEMSIRA>1</LNGKALEMSIRA><DBLMIKTAR>1</DBLMIKTAR><DBLBIRIMFIYAT>1</DBLBIRIMFIYAT></DETAY>
<DETAY><LNGKALEMSIRA>2</LNGKALEMSIRA><DBLMIKTAR>-1</DBLMIKTAR><DBLBIRIMFIYAT>1</DBLBIRIMFIYAT></DETAY>
<DETAY><LNGKALEMSIRA>3</LNGKALEMSIRA><DBLMIKTAR>0</DBLMIKTAR><DBLBIRIMFIYAT>1</DBLBIRIMFIYAT></DETAY>
<DETAY><LNGKALEMSIRA>4</LNGKALEMSIRA><DBLMIKTAR>abc</DBLMIKTAR><DBLBIRIMFIYAT>1</DBLBIRIMFIYAT></DETAY>
<DETAY><LNGKALEMSIRA>5</LNGKALEMSIRA><DBLMIKTAR>-4</DBLMIKTAR><DBLBIRIMFIYAT>1</DBLBIRIMFIYAT></DETAY>
</BASLIK></FATURALAR>`)
	require.Len(t, res.Summaries, 2)

	var lineNos []int
	for _, s := range res.Summaries {
		for _, it := range s.Items {
			lineNos = append(lineNos, it.LineNo)
		}
	}
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, lineNos)
	assert.Equal(t, 3, res.Summaries[0].ItemCount)
	assert.Equal(t, 2, res.Summaries[1].ItemCount)

	salesItems := res.Payloads[0].Sales.Header.HeaderType.Item.ItemType
	assert.Equal(t, []string{"10", "30", "40"}, []string{salesItems[0].ItemNo, salesItems[1].ItemNo, salesItems[2].ItemNo})
}

func TestMapFatura_Idempotent(t *testing.T) {
	first := mapFatura(t, mixedFatura)
	second := mapFatura(t, mixedFatura)
	assert.Equal(t, first, second)
}

func TestSalesRequest_ProfileValues(t *testing.T) {
	profile := DefaultProfile()
	profile.Material = "MAT-9"
	profile.SoldToParty = "20000001"
	profile.ShipToParty = "20000002"

	m := NewInvoiceMapper(profile)
	h := domain.InvoiceHeader{Reference: "F-1"}
	p := m.SalesRequest(h, []domain.InvoiceLine{{Quantity: 1, QuantityText: "1", UnitPriceText: "2.50"}})

	ht := p.Header.HeaderType
	assert.Equal(t, "F-1", ht.PurchaseOrderByCustomer)
	assert.Equal(t, SalesOrganization, ht.SalesOrganization)
	assert.Equal(t, SalesOrderType, ht.SalesOrderType)
	assert.Equal(t, "20000001", ht.SoldToParty)
	assert.Equal(t, "20000002", ht.ShipToParty)
	assert.Equal(t, "Z045", ht.CustomerPaymentTerms)
	assert.Equal(t, "MAT-9", ht.Item.ItemType[0].Material)
	assert.Equal(t, "2.5", ht.Item.ItemType[0].UnitPrice)
	assert.Equal(t, Currency, ht.Item.ItemType[0].TransactionCurrency)
}
