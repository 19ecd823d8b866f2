package bot

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fairyhunter13/warung-price-bot/internal/model"
)

// All user-facing text is Indonesian. Prices are grouped per the Indonesian
// locale (17000 renders as 17.000).
var indonesian = message.NewPrinter(language.Indonesian)

// helpReply enumerates the supported command shapes with literal examples.
// Both the fallback parser's no-match case and an unrecognized LLM action
// surface this same message.
const helpReply = "Maaf, saya tidak mengerti permintaan Anda. Silakan coba dengan format seperti:\n\n" +
	"• 'cari indomie'\n" +
	"• 'ubah 5 18000 per bks'\n" +
	"• 'ubah 123 25000'\n" +
	"• 'tambah gula 17000 per kg'\n" +
	"• 'tambah kopi 15000'\n" +
	"• 'hapus 5'\n" +
	"• 'hapus beras'\n\n" +
	"Gunakan format: cari/ubah/tambah/hapus"

const priceValidationReply = "Harga harus lebih dari 0."

func formatPrice(price int64) string {
	return indonesian.Sprintf("%d", price)
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " per " + unit
}

func replyCurrentPrice(p *model.Product) string {
	return fmt.Sprintf("Harga %s (ID: %d) saat ini adalah %s%s.", p.Name, p.ID, formatPrice(p.Price), unitSuffix(p.Unit))
}

func replyPriceUpdated(p *model.Product) string {
	return fmt.Sprintf("Harga %s (ID: %d) berhasil diperbarui menjadi %s%s.", p.Name, p.ID, formatPrice(p.Price), unitSuffix(p.Unit))
}

func replyNameNotFound(name string) string {
	return fmt.Sprintf("Produk '%s' tidak ditemukan di database.", name)
}

func replyIDNotFound(id int64) string {
	return fmt.Sprintf("Produk dengan ID %d tidak ditemukan.", id)
}

func replySearchResults(query string, products []model.Product) string {
	if len(products) == 0 {
		return fmt.Sprintf("Tidak ada produk yang ditemukan untuk query '%s'.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Ditemukan %d produk:\n\n", len(products))
	for _, p := range products {
		fmt.Fprintf(&b, "• %s (ID: %d): %s%s\n", p.Name, p.ID, formatPrice(p.Price), unitSuffix(p.Unit))
	}
	return b.String()
}

func replyDeletedByName(name string) string {
	return fmt.Sprintf("Produk '%s' berhasil dihapus dari database.", name)
}

func replyDeletedByID(id int64) string {
	return fmt.Sprintf("Produk dengan ID %d berhasil dihapus dari database.", id)
}

func replyFailure(verb string, err error) string {
	return fmt.Sprintf("Terjadi kesalahan saat %s produk: %v", verb, err)
}
