package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsString encodes s as a JavaScript string literal
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// cssString quotes s for use inside a CSS attribute selector
func cssString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// xpathString quotes s as an XPath 1.0 literal, which has no escapes
func xpathString(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		quoted = append(quoted, `"`+p+`"`)
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// linkXPath matches links whose text contains name
func linkXPath(name string) string {
	return fmt.Sprintf(`//a[contains(normalize-space(.), %s)]`, xpathString(name))
}

// selectScript picks an option by label or value and fires the events
// the site's scripts listen to. It evaluates to false when nothing matched.
func selectScript(selector, by, want string) string {
	return fmt.Sprintf(`
	(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		const by = %s, want = %s;
		const opt = Array.from(el.options).find(o =>
			by === 'label' ? o.textContent.trim() === want : o.value === want);
		if (!opt) return false;
		el.value = opt.value;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, jsString(selector), jsString(by), jsString(want))
}

// headingScript tests for a visible heading containing text, ignoring case
func headingScript(text string) string {
	return fmt.Sprintf(`
	(() => {
		const want = %s.toLowerCase();
		const nodes = document.querySelectorAll('h1, h2, h3, h4, h5, h6, [role="heading"]');
		return Array.from(nodes).some(n =>
			n.textContent.toLowerCase().includes(want) &&
			!!(n.offsetWidth || n.offsetHeight || n.getClientRects().length));
	})()`, jsString(text))
}
