package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// T 테스트 프레임워크 의존성을 줄이기 위한 최소 인터페이스입니다.
type T interface {
	Fatalf(format string, args ...any)
}

// GenerateSelfSignedCert TLS 서버 모드 테스트용 자체 서명 인증서와 키 파일을
// 임시 디렉토리에 생성합니다. localhost/127.0.0.1 전용입니다.
// 반환값: (certFile, keyFile, 정리 함수)
func GenerateSelfSignedCert(t T) (string, string, func()) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("개인키 생성 실패: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"G-School District"},
		},
		NotBefore: time.Now(),
		NotAfter:  time.Now().Add(time.Hour),

		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,

		DNSNames:    []string{"localhost"},
		IPAddresses: []net.IP{net.ParseIP("127.0.0.1")},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("인증서 생성 실패: %v", err)
	}

	tempDir, err := os.MkdirTemp("", "gschool-tls-test")
	if err != nil {
		t.Fatalf("임시 디렉토리 생성 실패: %v", err)
	}
	cleanup := func() {
		os.RemoveAll(tempDir)
	}

	certPath := filepath.Join(tempDir, "cert.pem")
	keyPath := filepath.Join(tempDir, "key.pem")

	if err := writePEM(certPath, "CERTIFICATE", derBytes); err != nil {
		cleanup()
		t.Fatalf("인증서 파일 기록 실패: %v", err)
	}

	privBytes, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		cleanup()
		t.Fatalf("개인키 직렬화 실패: %v", err)
	}
	if err := writePEM(keyPath, "EC PRIVATE KEY", privBytes); err != nil {
		cleanup()
		t.Fatalf("키 파일 기록 실패: %v", err)
	}

	return certPath, keyPath, cleanup
}

// writePEM 단일 PEM 블록을 파일로 저장합니다.
func writePEM(path, blockType string, der []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, &pem.Block{Type: blockType, Bytes: der})
}
