// Package qrcode renders enrollment URIs (otpauth://...) as PNG QR codes,
// either as raw bytes or as a data URI that can be embedded in HTML.
//
//	dataURI, err := qrcode.GenerateBase64Image(uri, qrcode.DefaultSize)
//	if err != nil {
//		return err
//	}
//
// Errors are sentinel values; compare them with errors.Is.
package qrcode
