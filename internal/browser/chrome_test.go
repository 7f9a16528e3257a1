package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/slotwatch/internal/types"
)

const formPage = `<!DOCTYPE html>
<html><body>
<form>
	<select id="IdDistrito">
		<option value="">Select</option>
		<option value="1">Lisboa</option>
	</select>
	<select id="IdLocalidade" disabled></select>
</form>
<a href="/slots">Next</a>
<script>
document.getElementById('IdDistrito').addEventListener('change', (e) => {
	fetch('/Marcacao/PesquisaLocalidades?id=' + e.target.value)
		.then(r => r.json())
		.then(list => {
			const sel = document.getElementById('IdLocalidade');
			sel.innerHTML = list.map(o => '<option value="' + o.value + '">' + o.text + '</option>').join('');
			sel.disabled = false;
		});
});
</script>
</body></html>`

const slotsPage = `<!DOCTYPE html>
<html><body>
<h2>There are no appointments available</h2>
<h3 style="display:none">Hidden heading</h3>
</body></html>`

func newSiteServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/form", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, formPage)
	})
	mux.HandleFunc("/slots", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, slotsPage)
	})
	mux.HandleFunc("/Marcacao/PesquisaLocalidades", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"value":"","text":"Select"},{"value":"10","text":"Sintra"}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// These tests start a real Chrome and only run when SLOTWATCH_CHROME_TESTS is set.
func newTestChrome(t *testing.T) *Chrome {
	t.Helper()
	if os.Getenv("SLOTWATCH_CHROME_TESTS") == "" {
		t.Skip("set SLOTWATCH_CHROME_TESTS to run browser tests")
	}

	c, err := NewChrome(context.Background(), Options{ActionTimeout: 10 * time.Second}, log.New(&bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestChromeDependentSelect(t *testing.T) {
	c := newTestChrome(t)
	server := newSiteServer(t)
	ctx := context.Background()

	require.NoError(t, c.Goto(ctx, server.URL+"/form"))

	districts, err := c.Options(ctx, "#IdDistrito")
	require.NoError(t, err)
	assert.Equal(t, []types.Option{{Text: "Select"}, {Text: "Lisboa", Value: "1"}}, districts)

	err = c.AwaitResponse(ctx, "/Marcacao/PesquisaLocalidades", func(ctx context.Context) error {
		return c.SelectValue(ctx, "#IdDistrito", "1")
	})
	require.NoError(t, err)
	require.NoError(t, c.WaitEnabled(ctx, "#IdLocalidade"))

	locations, err := c.Options(ctx, "#IdLocalidade")
	require.NoError(t, err)
	assert.Equal(t, []types.Option{{Text: "Select"}, {Text: "Sintra", Value: "10"}}, locations)

	err = c.SelectLabel(ctx, "#IdDistrito", "Porto")
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestChromeHeadingVisible(t *testing.T) {
	c := newTestChrome(t)
	server := newSiteServer(t)
	ctx := context.Background()

	require.NoError(t, c.Goto(ctx, server.URL+"/form"))
	require.NoError(t, c.FollowLink(ctx, "Next"))

	visible, err := c.HeadingVisible(ctx, "There are no appointment")
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = c.HeadingVisible(ctx, "Hidden heading")
	require.NoError(t, err)
	assert.False(t, visible)
}
