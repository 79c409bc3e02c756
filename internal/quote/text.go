package quote

import (
	"fmt"
	"strings"
)

// Text renders a document as a plain-text summary suitable for pasting
// into chat or email.
func Text(doc Document) string {
	var b strings.Builder

	b.WriteString("Cotización de impresión 3D\n")
	if doc.Reference != "" {
		fmt.Fprintf(&b, "Referencia: %s\n", doc.Reference)
	}
	if doc.CreatedAt != "" {
		fmt.Fprintf(&b, "Fecha: %s\n", doc.CreatedAt)
	}
	if doc.Title != "" {
		fmt.Fprintf(&b, "Título: %s\n", doc.Title)
	}
	if doc.Notes != "" {
		fmt.Fprintf(&b, "Notas: %s\n", doc.Notes)
	}

	for _, item := range doc.Items {
		b.WriteString("\nDatos del item:\n")
		fmt.Fprintf(&b, "  Archivo: %s\n", item.FileName)
		fmt.Fprintf(&b, "  Material: %s\n", item.Material)
		fmt.Fprintf(&b, "  Calidad: %s\n", item.Quality)
		fmt.Fprintf(&b, "  Relleno: %.0f%%\n", item.InfillPercent)
		fmt.Fprintf(&b, "  Soportes: %s\n", siNo(item.Supports))
		fmt.Fprintf(&b, "  Cantidad: %d\n", item.Quantity)
		fmt.Fprintf(&b, "  Volumen: %.2f cm3\n", item.VolumeCm3)
		fmt.Fprintf(&b, "  Tamaño: %.1f x %.1f x %.1f mm\n", item.SizeMm[0], item.SizeMm[1], item.SizeMm[2])
		fmt.Fprintf(&b, "  Peso estimado: %.2f g\n", item.Grams)
		fmt.Fprintf(&b, "  Tiempo estimado: %.1f min\n", item.Minutes)
		fmt.Fprintf(&b, "  Subtotal: %.2f %s\n", item.Subtotal, doc.Currency)
		if item.SmallOrderFee > 0 {
			fmt.Fprintf(&b, "  Recargo pedido pequeño: %.2f %s\n", item.SmallOrderFee, doc.Currency)
		}
		fmt.Fprintf(&b, "  Precio unitario: %.2f %s\n", item.UnitPrice, doc.Currency)
	}

	b.WriteString("\nTotales:\n")
	fmt.Fprintf(&b, "  Peso: %.2f g\n", doc.Totals.Grams)
	fmt.Fprintf(&b, "  Impresión: %.1f min\n", doc.Totals.PrintMinutes)
	fmt.Fprintf(&b, "  Preparación: %.1f min\n", doc.Totals.PrepMinutes)
	fmt.Fprintf(&b, "  Subtotal: %.2f %s\n", doc.Totals.Subtotal, doc.Currency)
	if doc.Totals.SmallOrderFee > 0 {
		fmt.Fprintf(&b, "  Recargo pedido pequeño: %.2f %s\n", doc.Totals.SmallOrderFee, doc.Currency)
	}
	if doc.Totals.Margin > 0 {
		fmt.Fprintf(&b, "  Margen: %.2f %s\n", doc.Totals.Margin, doc.Currency)
	}
	if doc.Totals.VAT > 0 {
		fmt.Fprintf(&b, "  IVA: %.2f %s\n", doc.Totals.VAT, doc.Currency)
	}
	fmt.Fprintf(&b, "Total: %.2f %s\n", doc.Totals.Total, doc.Currency)

	b.WriteString("\nSupuestos:\n")
	fmt.Fprintf(&b, "  Merma por pieza: %.2f g\n", doc.Assumptions.WasteGramsPerPart)
	fmt.Fprintf(&b, "  Factor de calibración: %.2f\n", doc.Assumptions.CalibrationMultiplier)
	if doc.Assumptions.PrepPerPart {
		fmt.Fprintf(&b, "  Preparación por pieza: %.1f min\n", doc.Assumptions.PrepMinutesPerJob)
	} else {
		fmt.Fprintf(&b, "  Preparación por trabajo: %.1f min\n", doc.Assumptions.PrepMinutesPerJob)
	}
	fmt.Fprintf(&b, "  Los precios se redondean hacia arriba al %s entero.\n", doc.Currency)

	return b.String()
}

func siNo(v bool) string {
	if v {
		return "sí"
	}
	return "no"
}
