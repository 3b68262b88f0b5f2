package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gdistrict/gschool-connect/internal/config"
	"github.com/gdistrict/gschool-connect/internal/dashboard"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
)

// accessKeyEnv 접근 키를 셸 히스토리에 남기지 않고 전달하기 위한 환경 변수입니다.
const accessKeyEnv = "GSCHOOL_ACCESS_KEY"

const usage = `명령:
  announce          전체 학생에게 공지를 보냅니다
  apply <scene_id>  지정한 장면을 적용합니다
  disable           현재 적용 중인 장면을 해제합니다
  help              이 도움말을 표시합니다
  quit              종료합니다`

func main() {
	serverURL := flag.String("server", fmt.Sprintf("http://localhost:%d", config.DefaultListenPort), "백엔드 서버 주소")
	email := flag.String("email", "", "교사 계정 이메일")
	accessKey := flag.String("access-key", "", "접근 키 (생략 시 "+accessKeyEnv+" 환경 변수 사용)")
	flag.Parse()

	logCloser, err := applog.Setup(applog.NewDevelopmentOptions(config.AppName + "-dashboard"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	key := *accessKey
	if key == "" {
		key = os.Getenv(accessKeyEnv)
	}
	if *email == "" || key == "" {
		fmt.Fprintln(os.Stderr, "사용법: gschool-dashboard -email <이메일> [-access-key <접근 키>] [-server <주소>]")
		os.Exit(2)
	}

	client := dashboard.NewClient(*serverURL, &http.Client{Timeout: 10 * time.Second})

	loginCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	result, err := client.Login(loginCtx, *email, key)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "로그인 실패: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s(%s) 계정으로 로그인했습니다. 'help'로 명령을 확인하세요.\n", result.Email, result.Role)

	reader := bufio.NewReader(os.Stdin)

	handler := dashboard.NewHandler(client, dashboard.Hooks{
		Toast: func(message string) { fmt.Println("✔ " + message) },
		Alert: func(message string) { fmt.Println("⚠ " + message) },
		Prompt: func(label string) string {
			fmt.Printf("%s: ", label)
			line, err := reader.ReadString('\n')
			if err != nil {
				return ""
			}
			return strings.TrimSpace(line)
		},
		Log: func(message string) { applog.WithComponent("dashboard-cli").Info(message) },
	})

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "announce":
			handler.Announce(context.Background())
		case "apply":
			if len(fields) < 2 {
				fmt.Println("사용법: apply <scene_id>")
				continue
			}
			handler.ApplyScene(context.Background(), fields[1])
		case "disable":
			handler.DisableScene(context.Background())
		case "help":
			fmt.Println(usage)
		case "quit", "exit":
			return
		default:
			fmt.Printf("알 수 없는 명령입니다: %s ('help' 참고)\n", fields[0])
		}
	}
}
