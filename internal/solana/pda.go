package solana

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/cockroachdb/errors"
	"github.com/mr-tron/base58"
)

const (
	maxSeedLength = 32
	maxSeeds      = 16
	pdaMarker     = "ProgramDerivedAddress"
)

// DecodeAddress decodes a base58 public key and checks it is 32 bytes.
func DecodeAddress(address string) ([]byte, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAddress, "%q: %v", address, err)
	}
	if len(decoded) != 32 {
		return nil, errors.Wrapf(ErrInvalidAddress, "%q: decoded length %d", address, len(decoded))
	}
	return decoded, nil
}

// IsValidAddress reports whether address is a 32-byte base58 key.
func IsValidAddress(address string) bool {
	_, err := DecodeAddress(address)
	return err == nil
}

// FindProgramAddress derives a Program Derived Address using the Solana algorithm:
// sha256(seeds || bump || programID || "ProgramDerivedAddress"), trying bumps from
// 255 downwards until the hash is off the ed25519 curve.
func FindProgramAddress(seeds [][]byte, programID string) (string, uint8, error) {
	programBytes, err := DecodeAddress(programID)
	if err != nil {
		return "", 0, err
	}
	if len(seeds) >= maxSeeds {
		return "", 0, errors.Newf("too many seeds: %d", len(seeds))
	}
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return "", 0, errors.Newf("seed too long: %d bytes", len(seed))
		}
	}

	for bump := 255; bump >= 0; bump-- {
		data := make([]byte, 0, 32*len(seeds)+1+32+len(pdaMarker))
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, byte(bump))
		data = append(data, programBytes...)
		data = append(data, []byte(pdaMarker)...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:]), uint8(bump), nil
		}
	}

	return "", 0, ErrNoViablePDA
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// FindMetadataAddress derives the Metaplex metadata PDA for a mint.
// Seeds: ["metadata", metadata_program_id, mint]
func FindMetadataAddress(mint string) (string, error) {
	mintBytes, err := DecodeAddress(mint)
	if err != nil {
		return "", err
	}
	programBytes, err := DecodeAddress(MetadataProgramID)
	if err != nil {
		return "", err
	}

	pda, _, err := FindProgramAddress([][]byte{
		[]byte("metadata"),
		programBytes,
		mintBytes,
	}, MetadataProgramID)
	return pda, err
}

// FindAssociatedTokenAddress derives the associated token account of owner for mint.
// Seeds: [owner, token_program_id, mint]
func FindAssociatedTokenAddress(owner, mint string) (string, error) {
	ownerBytes, err := DecodeAddress(owner)
	if err != nil {
		return "", err
	}
	mintBytes, err := DecodeAddress(mint)
	if err != nil {
		return "", err
	}
	tokenProgram, err := DecodeAddress(TokenProgramID)
	if err != nil {
		return "", err
	}

	pda, _, err := FindProgramAddress([][]byte{
		ownerBytes,
		tokenProgram,
		mintBytes,
	}, AssociatedTokenProgramID)
	return pda, err
}

// FindCandyMachineCreator derives the creator PDA that Candy Machine v2 writes as
// the first creator of every NFT it mints.
// Seeds: ["candy_machine", candy_machine]
func FindCandyMachineCreator(candyMachine string) (string, error) {
	cmBytes, err := DecodeAddress(candyMachine)
	if err != nil {
		return "", err
	}

	pda, _, err := FindProgramAddress([][]byte{
		[]byte("candy_machine"),
		cmBytes,
	}, CandyMachineV2ProgramID)
	return pda, err
}
