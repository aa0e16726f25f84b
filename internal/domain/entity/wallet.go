package entity

// Wallet is the active wallet. Key material never leaves the signing backend
// except as the opaque PrivateKey handed over in a KeySource.
type Wallet struct {
	Address    string `json:"address" yaml:"address"`
	Label      string `json:"label" yaml:"label"`
	IsHardware bool   `json:"isLedger" yaml:"isLedger"`
	PublicKey  string `json:"publicKey,omitempty" yaml:"publicKey"`
	PrivateKey string `json:"-" yaml:"privateKey"`
}

// KeySource returns the signing key reference for this wallet.
func (w Wallet) KeySource(sign SigningFunc) KeySource {
	if w.IsHardware {
		return KeySource{Kind: KeyHardware, Address: w.Address, PublicKey: w.PublicKey, Sign: sign}
	}
	return KeySource{Kind: KeyLocal, Address: w.Address, PrivateKey: w.PrivateKey}
}
