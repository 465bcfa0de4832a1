package generation

// AbiHeader is the header shared by every generated class and shim.
const AbiHeader = "goqtbridge_abi.h"

// abiHeader declares the C structs crossing the boundary and the native
// conversion helpers the generated classes call.
func abiHeader() []byte {
	return []byte(abiHeaderText)
}

const abiHeaderText = generatedNotice + `
#pragma once

#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>

typedef struct
{
  double x;
  double y;
} goqtbridge_pointf;

typedef struct
{
  double width;
  double height;
} goqtbridge_sizef;

typedef struct
{
  double left;
  double top;
  double right;
  double bottom;
} goqtbridge_marginsf;

typedef struct
{
  int32_t red;
  int32_t green;
  int32_t blue;
  int32_t alpha;
} goqtbridge_color;

// UTF-16 code units. Strings sent by Go are allocated with malloc and
// released by the receiver; strings sent by native code are borrowed.
typedef struct
{
  uint16_t* data;
  ptrdiff_t len;
} goqtbridge_string;

// kind: 0 invalid, 1 bool, 2 integer, 3 real, 4 string. The string payload
// is always allocated with malloc and released by the receiver. Native
// variants of any other type, and unsigned values above INT64_MAX, cross as
// invalid with a warning.
typedef struct
{
  int32_t kind;
  bool boolean;
  int64_t integer;
  double real;
  goqtbridge_string string;
} goqtbridge_variant;

#ifdef __cplusplus

#include <QtCore/QMarginsF>
#include <QtCore/QString>
#include <QtCore/QStringView>
#include <QtCore/QVariant>
#if defined(QT_GUI_LIB)
#include <QtGui/QColor>
#endif

#include <QtCore/QtGlobal>

#include <cstdlib>
#include <cstring>
#include <limits>
#include <type_traits>

namespace goqtbridge {

template<typename To, typename From>
inline To
bitCast(const From& from)
{
  static_assert(sizeof(To) == sizeof(From), "bridged types differ in size");
  static_assert(std::is_trivially_copyable<From>::value, "bridged type is not trivially copyable");
  To to;
  std::memcpy(&to, &from, sizeof(To));
  return to;
}

inline goqtbridge_string
toAbi(QStringView value)
{
  return goqtbridge_string{ const_cast<uint16_t*>(reinterpret_cast<const uint16_t*>(value.utf16())), value.size() };
}

inline goqtbridge_string
toAbi(const QString& value)
{
  return toAbi(QStringView(value));
}

inline goqtbridge_string
copyString(const QString& value)
{
  const auto bytes = static_cast<std::size_t>(value.size()) * sizeof(uint16_t);
  auto* data = static_cast<uint16_t*>(std::malloc(bytes == 0 ? 1 : bytes));
  std::memcpy(data, value.utf16(), bytes);
  return goqtbridge_string{ data, value.size() };
}

inline QString
takeString(goqtbridge_string value)
{
  QString text(reinterpret_cast<const QChar*>(value.data), value.len);
  std::free(value.data);
  return text;
}

inline goqtbridge_marginsf
toAbi(const QMarginsF& value)
{
  return goqtbridge_marginsf{ value.left(), value.top(), value.right(), value.bottom() };
}

inline QMarginsF
fromAbi(goqtbridge_marginsf value)
{
  return QMarginsF(value.left, value.top, value.right, value.bottom);
}

#if defined(QT_GUI_LIB)
inline goqtbridge_color
toAbi(const QColor& value)
{
  return goqtbridge_color{ value.red(), value.green(), value.blue(), value.alpha() };
}

inline QColor
fromAbi(goqtbridge_color value)
{
  return QColor::fromRgb(value.red, value.green, value.blue, value.alpha);
}
#endif

inline goqtbridge_variant
toAbi(const QVariant& value)
{
  goqtbridge_variant abi{};
  switch (value.typeId()) {
    case QMetaType::Bool:
      abi.kind = 1;
      abi.boolean = value.toBool();
      break;
    case QMetaType::ULongLong:
      if (value.toULongLong() > static_cast<qulonglong>(std::numeric_limits<qint64>::max())) {
        qWarning("goqtbridge: QVariant value %llu does not fit a signed 64-bit integer", value.toULongLong());
        break;
      }
      abi.kind = 2;
      abi.integer = value.toLongLong();
      break;
    case QMetaType::Int:
    case QMetaType::UInt:
    case QMetaType::LongLong:
      abi.kind = 2;
      abi.integer = value.toLongLong();
      break;
    case QMetaType::Float:
    case QMetaType::Double:
      abi.kind = 3;
      abi.real = value.toDouble();
      break;
    case QMetaType::QString:
      abi.kind = 4;
      abi.string = copyString(value.toString());
      break;
    case QMetaType::UnknownType:
      break;
    default:
      qWarning("goqtbridge: QVariant of type %s is not bridged", value.typeName());
      break;
  }
  return abi;
}

inline QVariant
takeVariant(goqtbridge_variant value)
{
  switch (value.kind) {
    case 1:
      return QVariant(value.boolean);
    case 2:
      return QVariant(static_cast<qlonglong>(value.integer));
    case 3:
      return QVariant(value.real);
    case 4:
      return QVariant(takeString(value.string));
    default:
      std::free(value.string.data);
      return QVariant();
  }
}

} // namespace goqtbridge

#endif
`
