// Package handler v1 API의 HTTP 요청 핸들러를 제공합니다.
//
// 이 패키지는 HTTP 요청을 받아 검증하고, 교실/장면/분류기 비즈니스 로직을 호출한 후,
// 적절한 HTTP 응답을 반환하는 핸들러 함수들을 포함합니다.
package handler

import (
	"github.com/gdistrict/gschool-connect/internal/service/api/auth"
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/classifier"
	"github.com/gdistrict/gschool-connect/internal/service/classroom"
	"github.com/gdistrict/gschool-connect/internal/service/contract"
	"github.com/gdistrict/gschool-connect/internal/service/scene"
)

// Handler v1 API 요청을 처리하고 비즈니스 로직을 연결하는 핸들러입니다.
//
// 의존성 주입을 통해 생성되며 다음 역할을 수행합니다:
//   - HTTP 요청 바인딩 및 검증
//   - 교사 로그인/신원 확인 처리
//   - 교실 상태, 장면 레지스트리, URL 분류기 호출
//   - 손들기/긴급 알림의 운영자 채널 전달
type Handler struct {
	authenticator *auth.Authenticator

	classroom *classroom.Manager
	scenes    *scene.Registry
	classifier *classifier.Service

	// notificationSender 손들기, 이탈 경고를 운영자 채널로 전달합니다.
	notificationSender contract.NotificationSender
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(
	authenticator *auth.Authenticator,
	classroomManager *classroom.Manager,
	sceneRegistry *scene.Registry,
	classifierService *classifier.Service,
	notificationSender contract.NotificationSender,
) *Handler {
	if authenticator == nil {
		panic(constants.PanicMsgAuthenticatorRequired)
	}
	if classroomManager == nil {
		panic(constants.PanicMsgClassroomRequired)
	}
	if sceneRegistry == nil {
		panic(constants.PanicMsgSceneRegistryRequired)
	}
	if classifierService == nil {
		panic(constants.PanicMsgClassifierRequired)
	}
	if notificationSender == nil {
		panic(constants.PanicMsgNotificationSenderRequired)
	}

	return &Handler{
		authenticator: authenticator,

		classroom:  classroomManager,
		scenes:     sceneRegistry,
		classifier: classifierService,

		notificationSender: notificationSender,
	}
}
