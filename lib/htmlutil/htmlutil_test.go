package htmlutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	doc, err := ParseDocument(context.Background(), `<table><tbody><tr>
		<td> <p>Bitcoin</p>
			<p class="coin-item-symbol  big">BTC</p> </td>
	</tr></tbody></table>`)
	require.NoError(t, err)

	cell := doc.Find("td").First()
	require.Equal(t, "Bitcoin BTC", Text(cell))
	require.Equal(t, "BTC", Text(cell.Find("p").Eq(1)))
	require.Equal(t, []string{"coin-item-symbol", "big"}, ClassTokens(cell.Find("p").Eq(1)))

	require.Equal(t, "", Text(doc.Find("span")))
	require.Nil(t, ClassTokens(doc.Find("span")))
}
